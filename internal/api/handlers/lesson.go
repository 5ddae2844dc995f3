package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/service"
)

type LessonIndexer interface {
	ReindexLesson(ctx context.Context, input service.ReindexLessonInput) ([]*domain.ContentItem, error)
}

type LessonHandler struct {
	svc LessonIndexer
}

func NewLessonHandler(svc LessonIndexer) *LessonHandler {
	return &LessonHandler{svc: svc}
}

type ReindexLessonRequest struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Content    string `json:"content"`
}

type ReindexLessonResponse struct {
	LessonID string                 `json:"lesson_id"`
	Chunks   []*ContentItemResponse `json:"chunks"`
}

// Reindex chunks the lesson body and replaces the lesson's indexed chunks.
func (h *LessonHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "id")
	if lessonID == "" {
		api.Error(w, http.StatusBadRequest, "lesson id is required")
		return
	}

	var req ReindexLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == "" {
		api.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	input := service.ReindexLessonInput{
		LessonID:   lessonID,
		Title:      req.Title,
		Category:   req.Category,
		Difficulty: domain.Difficulty(req.Difficulty),
		Content:    req.Content,
	}

	chunks, err := h.svc.ReindexLesson(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*ContentItemResponse, len(chunks))
	for i, chunk := range chunks {
		responses[i] = contentItemToResponse(chunk)
	}

	api.Success(w, http.StatusOK, ReindexLessonResponse{
		LessonID: lessonID,
		Chunks:   responses,
	})
}
