package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/pagination"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockVectorIndex is a mock implementation of VectorIndex
type MockVectorIndex struct {
	mock.Mock
}

func (m *MockVectorIndex) Upsert(ctx context.Context, item *domain.ContentItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockVectorIndex) SetEmbedding(ctx context.Context, contentID string, embedding []float32) error {
	args := m.Called(ctx, contentID, embedding)
	return args.Error(0)
}

func (m *MockVectorIndex) ReplaceLessonChunks(ctx context.Context, lessonID string, chunks []*domain.ContentItem) error {
	args := m.Called(ctx, lessonID, chunks)
	return args.Error(0)
}

func (m *MockVectorIndex) Query(ctx context.Context, vector []float32, filters IndexFilters, limit int) ([]*IndexMatch, error) {
	args := m.Called(ctx, vector, filters, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*IndexMatch), args.Error(1)
}

// MockContentStore is a mock implementation of ContentStore
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

func (m *MockContentStore) ListRecentVerified(ctx context.Context, limit int) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

func (m *MockContentStore) ListVerifiedByCategory(ctx context.Context, category string, limit int) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

// MockContentCatalog is a mock implementation of ContentCatalog
type MockContentCatalog struct {
	mock.Mock
}

func (m *MockContentCatalog) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int, class domain.ContentClass) (*ContentPage, error) {
	args := m.Called(ctx, cursor, limit, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ContentPage), args.Error(1)
}

// MockConceptStore is a mock implementation of ConceptStore
type MockConceptStore struct {
	mock.Mock
}

func (m *MockConceptStore) GetConceptByTerm(ctx context.Context, term string) (*domain.ContentItem, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentItem), args.Error(1)
}

// MockEmbeddingJobStore is a mock implementation of EmbeddingJobStore
type MockEmbeddingJobStore struct {
	mock.Mock
}

func (m *MockEmbeddingJobStore) Create(ctx context.Context, job *domain.EmbeddingJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// MockSearchLogStore is a mock implementation of SearchLogStore
type MockSearchLogStore struct {
	mock.Mock
}

func (m *MockSearchLogStore) CreateSearchQuery(ctx context.Context, rec *domain.SearchQueryRecord) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockSearchLogStore) RecordClick(ctx context.Context, searchID, contentID string) error {
	args := m.Called(ctx, searchID, contentID)
	return args.Error(0)
}

// MockInteractionSink is a mock implementation of InteractionSink
type MockInteractionSink struct {
	mock.Mock
}

func (m *MockInteractionSink) RecordSearch(ctx context.Context, userID, query string, resultCount int) error {
	args := m.Called(ctx, userID, query, resultCount)
	return args.Error(0)
}

// MockInteractionReader is a mock implementation of InteractionReader
type MockInteractionReader struct {
	mock.Mock
}

func (m *MockInteractionReader) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.InteractionEvent, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InteractionEvent), args.Error(1)
}

// MockRecommendationStore is a mock implementation of RecommendationStore
type MockRecommendationStore struct {
	mock.Mock
}

func (m *MockRecommendationStore) CreateBatch(ctx context.Context, recs []*domain.Recommendation) error {
	args := m.Called(ctx, recs)
	return args.Error(0)
}
