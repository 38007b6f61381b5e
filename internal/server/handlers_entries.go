package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/kibe0711-png/financial-report-creator/internal/logging"
	"github.com/kibe0711-png/financial-report-creator/internal/model"
	"github.com/kibe0711-png/financial-report-creator/internal/store"
)

type addEntryRequest struct {
	AccountCode    string               `json:"accountCode"`
	AccountName    string               `json:"accountName"`
	Amount         decimal.Decimal      `json:"amount"`
	Adjustments    decimal.NullDecimal  `json:"adjustments"`
	Classification model.Classification `json:"classification"`
}

type classifyRequest struct {
	Classification model.Classification `json:"classification"`
}

type bulkClassifyRequest struct {
	Updates []store.ClassificationUpdate `json:"updates"`
}

// handleListEntries handles GET /api/projects/{projectID}/entries.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListEntries(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []model.ClassifiedEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
}

// handleAddEntry handles POST /api/projects/{projectID}/entries.
func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Classification == "" {
		req.Classification = model.Unclassified
	}
	if _, err := model.ParseClassification(string(req.Classification)); err != nil {
		respondError(w, r, err)
		return
	}

	e := model.ClassifiedEntry{
		Entry: model.NewEntry(req.AccountCode, req.AccountName, req.Amount, req.Adjustments),
	}.WithClassification(req.Classification)

	projectID := chi.URLParam(r, "projectID")
	created, err := s.store.AddEntry(r.Context(), projectID, e)
	if err != nil {
		respondError(w, r, err)
		return
	}
	log := logging.FromContext(r.Context())
	log.Info().
		Str("project", projectID).
		Str("entry", created.ID).
		Str("account", created.AccountCode).
		Msg("manual entry added")
	writeJSON(w, http.StatusCreated, created)
}

// handleClassify handles PUT /api/entries/{entryID}.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	c, err := model.ParseClassification(string(req.Classification))
	if err != nil {
		respondError(w, r, err)
		return
	}

	entryID := chi.URLParam(r, "entryID")
	if err := s.store.UpdateClassification(r.Context(), entryID, c); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             entryID,
		"classification": c,
		"reportSection":  c.Section(),
	})
}

// handleBulkClassify handles PUT /api/entries. Either every update applies or
// none does.
func (s *Server) handleBulkClassify(w http.ResponseWriter, r *http.Request) {
	var req bulkClassifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if len(req.Updates) == 0 {
		respondError(w, r, badRequest("updates is empty"))
		return
	}
	for _, u := range req.Updates {
		if _, err := model.ParseClassification(string(u.Classification)); err != nil {
			respondError(w, r, err)
			return
		}
	}

	if err := s.store.UpdateClassifications(r.Context(), req.Updates); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": len(req.Updates)})
}

// handleDeleteEntry handles DELETE /api/entries/{entryID}.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEntry(r.Context(), chi.URLParam(r, "entryID")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
