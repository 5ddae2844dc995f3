package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/service"
)

type ConceptService interface {
	Related(ctx context.Context, term string, limit int) ([]*service.SearchResult, error)
}

type ConceptHandler struct {
	svc ConceptService
}

func NewConceptHandler(svc ConceptService) *ConceptHandler {
	return &ConceptHandler{svc: svc}
}

type RelatedConceptsResponse struct {
	Term    string                  `json:"term"`
	Related []*SearchResultResponse `json:"related"`
}

// Related returns the concepts nearest to the named term.
func (h *ConceptHandler) Related(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	if term == "" {
		api.Error(w, http.StatusBadRequest, "term is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	results, err := h.svc.Related(r.Context(), term, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*SearchResultResponse, len(results))
	for i, result := range results {
		responses[i] = searchResultToResponse(result)
	}

	api.Success(w, http.StatusOK, RelatedConceptsResponse{
		Term:    term,
		Related: responses,
	})
}
