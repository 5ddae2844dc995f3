package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/service"
)

type MockConceptService struct {
	mock.Mock
}

func (m *MockConceptService) Related(ctx context.Context, term string, limit int) ([]*service.SearchResult, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.SearchResult), args.Error(1)
}

func conceptRequest(term, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/concepts/"+term+"/related"+query, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("term", term)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestConceptHandler_Related_Success(t *testing.T) {
	mockSvc := new(MockConceptService)
	handler := NewConceptHandler(mockSvc)

	results := []*service.SearchResult{
		{
			ContentID:  "concept-2",
			Class:      domain.ContentClassConcept,
			Title:      "Compound Interest",
			Similarity: 0.88,
		},
	}
	mockSvc.On("Related", mock.Anything, "apr", 3).Return(results, nil)

	req := conceptRequest("apr", "?limit=3")
	w := httptest.NewRecorder()

	handler.Related(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "apr", data["term"])

	related, ok := data["related"].([]interface{})
	require.True(t, ok)
	require.Len(t, related, 1)
	first := related[0].(map[string]interface{})
	assert.Equal(t, "concept-2", first["content_id"])

	mockSvc.AssertExpectations(t)
}

func TestConceptHandler_Related_NotFound(t *testing.T) {
	mockSvc := new(MockConceptService)
	handler := NewConceptHandler(mockSvc)

	mockSvc.On("Related", mock.Anything, "unknown", 0).Return(nil, domain.ErrContentNotFound)

	req := conceptRequest("unknown", "")
	w := httptest.NewRecorder()

	handler.Related(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConceptHandler_Related_NotEmbedded(t *testing.T) {
	mockSvc := new(MockConceptService)
	handler := NewConceptHandler(mockSvc)

	mockSvc.On("Related", mock.Anything, "apr", 0).
		Return(nil, domain.NewDomainError(domain.ErrCodeUnavailable, "concept has not been embedded yet"))

	req := conceptRequest("apr", "")
	w := httptest.NewRecorder()

	handler.Related(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestConceptHandler_Related_InvalidLimit(t *testing.T) {
	handler := NewConceptHandler(new(MockConceptService))

	req := conceptRequest("apr", "?limit=three")
	w := httptest.NewRecorder()

	handler.Related(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
