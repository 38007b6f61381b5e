// Package importer reads trial-balance spreadsheets into header-keyed rows.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

// Sheet is a parsed spreadsheet: the trimmed header row and the data rows keyed
// by header.
type Sheet struct {
	Headers []string
	Rows    []model.RawRow
}

// Source converts one spreadsheet format into a Sheet.
type Source interface {
	Read(r io.Reader) (Sheet, error)
	Format() string
}

// Registry holds sources by format name, which doubles as the file extension.
type Registry struct {
	sources map[string]Source
}

// FileInfo describes a spreadsheet in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Format string
	Size   int64
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a source. Panics on duplicate format.
func (r *Registry) Register(s Source) {
	key := strings.ToLower(s.Format())
	if _, ok := r.sources[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.sources[key] = s
}

// Get returns the source for format, or nil.
func (r *Registry) Get(format string) Source {
	return r.sources[strings.ToLower(format)]
}

// ForFile returns the source matching the file's extension, or nil.
func (r *Registry) ForFile(name string) Source {
	return r.Get(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.sources))
	for f := range r.sources {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// ReadFile opens path and parses it with the source for its extension.
func (r *Registry) ReadFile(path string) (Sheet, error) {
	src := r.ForFile(path)
	if src == nil {
		return Sheet{}, fmt.Errorf("unsupported file type %q (supported: %s)",
			filepath.Ext(path), strings.Join(r.Formats(), ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheet, err := src.Read(f)
	if err != nil {
		return Sheet{}, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return sheet, nil
}

// DefaultRegistry returns a registry with all built-in sources.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVSource{})
	r.Register(&XLSXSource{})
	return r
}

// Scan returns the files in dir that a registered source can read.
// A missing dir yields no files.
func (r *Registry) Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		src := r.ForFile(e.Name())
		if src == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Format: src.Format(),
			Size:   info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file into processedDir.
func MarkProcessed(path, processedDir string) error {
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	name := filepath.Base(path)
	dst := filepath.Join(processedDir, name)
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", name, err)
	}
	return nil
}

// shape turns raw records into a Sheet. The first non-blank record is the
// header. Blank records are skipped, short records are padded, extra cells are
// dropped, and a repeated header keeps the rightmost value.
func shape(records [][]string) Sheet {
	var sheet Sheet
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		if sheet.Headers == nil {
			sheet.Headers = make([]string, len(rec))
			for i, h := range rec {
				if i == 0 {
					h = strings.TrimPrefix(h, "\ufeff")
				}
				sheet.Headers[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make(model.RawRow, len(sheet.Headers))
		for i, h := range sheet.Headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else if _, ok := row[h]; !ok {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
