package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/service"
)

type ContentIndexer interface {
	IndexContent(ctx context.Context, input service.IndexContentInput) (*domain.ContentItem, error)
}

type ContentLister interface {
	List(ctx context.Context, rawCursor string, limit int, class string) (*service.ContentPage, error)
}

type ContentHandler struct {
	indexer ContentIndexer
	catalog ContentLister
}

func NewContentHandler(indexer ContentIndexer, catalog ContentLister) *ContentHandler {
	return &ContentHandler{indexer: indexer, catalog: catalog}
}

type CreateContentRequest struct {
	ContentClass string `json:"content_class"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	Source       string `json:"source,omitempty"`
	Verified     bool   `json:"verified,omitempty"`
}

type ContentItemResponse struct {
	ID           string `json:"id"`
	ContentClass string `json:"content_class"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	Verified     bool   `json:"verified"`
	Source       string `json:"source,omitempty"`
	LessonID     string `json:"lesson_id,omitempty"`
	ChunkIndex   int    `json:"chunk_index,omitempty"`
	Embedded     bool   `json:"embedded"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type ContentListResponse struct {
	Items   []*ContentItemResponse `json:"items"`
	Cursor  string                 `json:"cursor,omitempty"`
	HasMore bool                   `json:"has_more"`
}

func contentItemToResponse(item *domain.ContentItem) *ContentItemResponse {
	return &ContentItemResponse{
		ID:           item.ID,
		ContentClass: string(item.Class),
		Title:        item.Title,
		Category:     item.Category,
		Difficulty:   string(item.Difficulty),
		Verified:     item.Verified,
		Source:       item.Source,
		LessonID:     item.LessonID,
		ChunkIndex:   item.ChunkIndex,
		Embedded:     item.Embeddable(),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Body == "" {
		api.Error(w, http.StatusBadRequest, "body is required")
		return
	}
	if req.ContentClass == "" {
		api.Error(w, http.StatusBadRequest, "content_class is required")
		return
	}

	class := domain.ContentClass(req.ContentClass)
	if !domain.IsValidContentClass(class) {
		api.Error(w, http.StatusBadRequest, "invalid content class")
		return
	}

	input := service.IndexContentInput{
		Class:      class,
		Title:      req.Title,
		Body:       req.Body,
		Category:   req.Category,
		Difficulty: domain.Difficulty(req.Difficulty),
		Source:     req.Source,
		Verified:   req.Verified,
	}

	item, err := h.indexer.IndexContent(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, contentItemToResponse(item))
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")
	class := r.URL.Query().Get("content_class")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	page, err := h.catalog.List(r.Context(), cursor, limit, class)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*ContentItemResponse, len(page.Items))
	for i, item := range page.Items {
		items[i] = contentItemToResponse(item)
	}

	api.Success(w, http.StatusOK, ContentListResponse{
		Items:   items,
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	})
}
