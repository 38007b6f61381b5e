package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kibe0711-png/financial-report-creator/internal/model"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	PeriodEnd   string `json:"periodEnd"` // YYYY-MM-DD
}

// handleListProjects handles GET /api/projects.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if projects == nil {
		projects = []model.ProjectSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleCreateProject handles POST /api/projects.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	periodEnd, err := model.ParsePeriodEnd(req.PeriodEnd)
	if err != nil {
		respondError(w, r, err)
		return
	}
	info := model.ProjectInfo{Name: req.Name, CompanyName: req.CompanyName, PeriodEnd: periodEnd}
	if err := info.Validate(); err != nil {
		respondError(w, r, err)
		return
	}

	p, err := s.store.CreateProject(r.Context(), info)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleGetProject handles GET /api/projects/{projectID}.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleClassifications handles GET /api/classifications.
func (s *Server) handleClassifications(w http.ResponseWriter, r *http.Request) {
	sections := []map[string]string{}
	for _, sec := range []model.ReportSection{model.SectionBalanceSheet, model.SectionPnL} {
		sections = append(sections, map[string]string{"value": string(sec), "label": sec.Label()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"classifications": model.ClassificationOptions(),
		"sections":        sections,
	})
}
