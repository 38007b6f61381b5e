package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kibe0711-png/financial-report-creator/internal/extract"
	"github.com/kibe0711-png/financial-report-creator/internal/logging"
	"github.com/kibe0711-png/financial-report-creator/internal/mapping"
	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

type uploadResponse struct {
	Headers      []string                `json:"headers"`
	Mapping      mapping.Mapping         `json:"mapping"`
	Entries      []model.ClassifiedEntry `json:"entries"`
	Count        int                     `json:"count"`
	Unclassified int                     `json:"unclassified"`
	Fallbacks    []extract.Fallback      `json:"fallbacks"`
	Warnings     []statement.SignWarning `json:"warnings"`
	DryRun       bool                    `json:"dryRun"`
}

type incompleteResponse struct {
	Error   string          `json:"error"`
	Missing []mapping.Field `json:"missing"`
	Headers []string        `json:"headers"`
	Mapping mapping.Mapping `json:"mapping"`
}

// handleMapping handles POST /api/mapping. The body is a raw spreadsheet; the
// format query parameter selects xlsx, defaulting to csv.
func (s *Server) handleMapping(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	src := s.sources.Get(format)
	if src == nil {
		respondError(w, r, badRequest("unsupported format %q (supported: %s)", format, strings.Join(s.sources.Formats(), ", ")))
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	sheet, err := src.Read(body)
	if err != nil {
		respondError(w, r, wrapRead(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"headers": sheet.Headers,
		"mapping": mapping.Infer(sheet.Headers),
	})
}

// handleUpload handles POST /api/projects/{projectID}/upload.
//
// Form fields: file (required), mapping (JSON overrides, optional), dry_run.
// Unless dry_run is set the project's entries are replaced by the result.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.FromContext(ctx)
	projectID := chi.URLParam(r, "projectID")

	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		respondError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		respondError(w, r, wrapRead(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, badRequest("file is required"))
		return
	}
	defer file.Close()

	src := s.sources.ForFile(header.Filename)
	if src == nil {
		respondError(w, r, badRequest("unsupported file type %q (supported: %s)", header.Filename, strings.Join(s.sources.Formats(), ", ")))
		return
	}

	var override mapping.Mapping
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &override); err != nil {
			respondError(w, r, badRequest("invalid mapping: %v", err))
			return
		}
	}

	dryRun := false
	if raw := r.FormValue("dry_run"); raw != "" {
		dryRun, err = strconv.ParseBool(raw)
		if err != nil {
			respondError(w, r, badRequest("invalid dry_run %q", raw))
			return
		}
	}

	sheet, err := src.Read(file)
	if err != nil {
		respondError(w, r, wrapRead(err))
		return
	}

	preview, err := s.pipeline.Run(sheet.Headers, sheet.Rows, override)
	var incomplete *mapping.IncompleteError
	if errors.As(err, &incomplete) {
		writeJSON(w, http.StatusUnprocessableEntity, incompleteResponse{
			Error:   err.Error(),
			Missing: incomplete.Missing,
			Headers: preview.Headers,
			Mapping: preview.Mapping,
		})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := uploadResponse{
		Headers:      preview.Headers,
		Mapping:      preview.Mapping,
		Entries:      preview.Entries,
		Count:        len(preview.Entries),
		Unclassified: preview.Unclassified(),
		Fallbacks:    preview.Fallbacks,
		Warnings:     preview.Warnings,
		DryRun:       dryRun,
	}

	if !dryRun {
		unlock := s.uploads.lock(projectID)
		defer unlock()

		n, err := s.store.ReplaceEntries(ctx, projectID, preview.Entries)
		if err != nil {
			respondError(w, r, err)
			return
		}
		stored, err := s.store.ListEntries(ctx, projectID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		resp.Entries = stored
		resp.Count = n
	}

	log.Info().
		Str("project", projectID).
		Str("file", header.Filename).
		Int("entries", resp.Count).
		Int("unclassified", resp.Unclassified).
		Int("warnings", len(resp.Warnings)).
		Bool("dry_run", dryRun).
		Msg("trial balance uploaded")

	if resp.Entries == nil {
		resp.Entries = []model.ClassifiedEntry{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// wrapRead classifies a body read failure: oversized bodies keep their
// *http.MaxBytesError, anything else is a malformed upload.
func wrapRead(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return badRequest("reading upload: %v", err)
}

