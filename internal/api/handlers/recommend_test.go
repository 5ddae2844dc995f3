package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-learning/brightpath/internal/api"
	"github.com/brightpath-learning/brightpath/internal/domain"
)

type MockRecommendService struct {
	mock.Mock
}

func (m *MockRecommendService) Recommend(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Recommendation), args.Error(1)
}

func TestRecommendHandler_List_Success(t *testing.T) {
	mockSvc := new(MockRecommendService)
	handler := NewRecommendHandler(mockSvc)

	recs := []*domain.Recommendation{
		{
			ID:           "rec-1",
			UserID:       "user-1",
			ContentID:    "article-1",
			ContentClass: domain.ContentClassArticle,
			Kind:         domain.RecommendationPersonalized,
			Score:        0.86,
			Reason:       `based on your interest in "investing"`,
			CreatedAt:    time.Now().UTC(),
		},
	}
	mockSvc.On("Recommend", mock.Anything, "user-1", 5).Return(recs, nil)

	req := requestWithUserID(http.MethodGet, "/recommendations?limit=5", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp api.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)

	items, ok := data["recommendations"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "rec-1", first["id"])
	assert.Equal(t, "personalized", first["kind"])

	mockSvc.AssertExpectations(t)
}

func TestRecommendHandler_List_MissingUserID(t *testing.T) {
	handler := NewRecommendHandler(new(MockRecommendService))

	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendHandler_List_InvalidLimit(t *testing.T) {
	handler := NewRecommendHandler(new(MockRecommendService))

	req := requestWithUserID(http.MethodGet, "/recommendations?limit=abc", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendHandler_List_DefaultLimit(t *testing.T) {
	mockSvc := new(MockRecommendService)
	handler := NewRecommendHandler(mockSvc)

	mockSvc.On("Recommend", mock.Anything, "user-1", 0).Return([]*domain.Recommendation{}, nil)

	req := requestWithUserID(http.MethodGet, "/recommendations", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRecommendHandler_List_Timeout(t *testing.T) {
	mockSvc := new(MockRecommendService)
	handler := NewRecommendHandler(mockSvc)

	mockSvc.On("Recommend", mock.Anything, "user-1", 0).Return(nil, domain.ErrQueryTimeout)

	req := requestWithUserID(http.MethodGet, "/recommendations", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}
