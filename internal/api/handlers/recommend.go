package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/api/middleware"
	"github.com/brightpath-learning/brightpath/internal/domain"
)

type RecommendationService interface {
	Recommend(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error)
}

type RecommendHandler struct {
	svc RecommendationService
}

func NewRecommendHandler(svc RecommendationService) *RecommendHandler {
	return &RecommendHandler{svc: svc}
}

type RecommendationResponse struct {
	ID           string  `json:"id"`
	ContentID    string  `json:"content_id"`
	ContentClass string  `json:"content_class"`
	Kind         string  `json:"kind"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
	CreatedAt    string  `json:"created_at"`
}

type RecommendationListResponse struct {
	Recommendations []*RecommendationResponse `json:"recommendations"`
}

func (h *RecommendHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		api.Error(w, http.StatusBadRequest, "X-User-ID header is required")
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

	recs, err := h.svc.Recommend(r.Context(), userID, limit)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*RecommendationResponse, len(recs))
	for i, rec := range recs {
		responses[i] = &RecommendationResponse{
			ID:           rec.ID,
			ContentID:    rec.ContentID,
			ContentClass: string(rec.ContentClass),
			Kind:         string(rec.Kind),
			Score:        rec.Score,
			Reason:       rec.Reason,
			CreatedAt:    rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}

	api.Success(w, http.StatusOK, RecommendationListResponse{Recommendations: responses})
}
