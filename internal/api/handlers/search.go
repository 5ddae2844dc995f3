package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/api/middleware"
	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/service"
)

type SearchService interface {
	Search(ctx context.Context, input service.SearchInput) (*service.SearchOutput, error)
	RecordClick(ctx context.Context, searchID, contentID string) error
}

type SearchHandler struct {
	svc SearchService
}

func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchRequest struct {
	Query          string   `json:"query"`
	ContentClasses []string `json:"content_classes,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

type SearchResultResponse struct {
	ContentID    string  `json:"content_id"`
	ContentClass string  `json:"content_class"`
	Title        string  `json:"title"`
	Snippet      string  `json:"snippet,omitempty"`
	Category     string  `json:"category,omitempty"`
	Difficulty   string  `json:"difficulty,omitempty"`
	Similarity   float64 `json:"similarity"`
	Source       string  `json:"source,omitempty"`
}

type SearchResponse struct {
	Results  []*SearchResultResponse `json:"results"`
	SearchID string                  `json:"search_id,omitempty"`
}

type SearchFeedbackRequest struct {
	SearchID  string `json:"search_id"`
	ContentID string `json:"content_id"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	classes := make([]domain.ContentClass, 0, len(req.ContentClasses))
	for _, raw := range req.ContentClasses {
		class := domain.ContentClass(raw)
		if !domain.IsValidContentClass(class) {
			api.Error(w, http.StatusBadRequest, "invalid content class")
			return
		}
		classes = append(classes, class)
	}

	input := service.SearchInput{
		Query:      req.Query,
		UserID:     middleware.GetUserID(r.Context()),
		Classes:    classes,
		Categories: req.Categories,
		Limit:      req.Limit,
	}

	output, err := h.svc.Search(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := make([]*SearchResultResponse, len(output.Results))
	for i, result := range output.Results {
		results[i] = searchResultToResponse(result)
	}

	api.Success(w, http.StatusOK, SearchResponse{
		Results:  results,
		SearchID: output.SearchID,
	})
}

// SearchFeedback records which result was clicked for a prior search.
func (h *SearchHandler) SearchFeedback(w http.ResponseWriter, r *http.Request) {
	var req SearchFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SearchID == "" || req.ContentID == "" {
		api.Error(w, http.StatusBadRequest, "search_id and content_id are required")
		return
	}

	if err := h.svc.RecordClick(r.Context(), req.SearchID, req.ContentID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]any{"status": "ok"})
}

func searchResultToResponse(result *service.SearchResult) *SearchResultResponse {
	return &SearchResultResponse{
		ContentID:    result.ContentID,
		ContentClass: string(result.Class),
		Title:        result.Title,
		Snippet:      result.Snippet,
		Category:     result.Category,
		Difficulty:   string(result.Difficulty),
		Similarity:   result.Similarity,
		Source:       result.Source,
	}
}
