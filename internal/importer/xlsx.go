package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the first worksheet of an Excel workbook.
type XLSXSource struct{}

// Format returns the source name.
func (s *XLSXSource) Format() string { return "xlsx" }

// Read parses the first sheet. Cell values are read unformatted so amounts keep
// full precision.
func (s *XLSXSource) Read(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Sheet{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return shape(rows), nil
}
