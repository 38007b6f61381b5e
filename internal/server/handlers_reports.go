package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/render"
	"github.com/kibe0711-png/financial-report-creator/internal/statement"
)

type reportsResponse struct {
	BalanceSheet    statement.BalanceSheet    `json:"balanceSheet"`
	IncomeStatement statement.IncomeStatement `json:"incomeStatement"`
	Unclassified    []model.ClassifiedEntry   `json:"unclassified"`
	Warnings        []statement.SignWarning   `json:"warnings"`
}

// handleReports handles GET /api/projects/{projectID}/reports.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.store.GetProject(r.Context(), projectID); err != nil {
		respondError(w, r, err)
		return
	}
	entries, err := s.store.ListEntries(r.Context(), projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reportsResponse{
		BalanceSheet:    statement.BuildBalanceSheet(entries),
		IncomeStatement: statement.BuildIncomeStatement(entries),
		Unclassified:    statement.Unclassified(entries),
		Warnings:        statement.CheckSigns(entries),
	})
}

// handleExport handles GET /api/projects/{projectID}/export/{format}.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	renderer, err := render.ForFormat(chi.URLParam(r, "format"))
	if err != nil {
		respondError(w, r, badRequest("%v", err))
		return
	}

	projectID := chi.URLParam(r, "projectID")
	p, err := s.store.GetProject(r.Context(), projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	entries, err := s.store.ListEntries(r.Context(), projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	data, err := renderer.Render(p.ProjectInfo, statement.BuildBalanceSheet(entries), statement.BuildIncomeStatement(entries))
	if err != nil {
		respondError(w, r, fmt.Errorf("rendering %s: %w", renderer.Extension(), err))
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", render.Filename(p.ProjectInfo, renderer)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
