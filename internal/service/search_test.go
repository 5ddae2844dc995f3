package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-learning/brightpath/internal/domain"
)

func queryVector() []float32 {
	v := make([]float32, domain.EmbeddingDimensions)
	v[0] = 1.0
	return v
}

func articleMatch(id, title, category string, similarity float64, createdAt time.Time) *IndexMatch {
	return &IndexMatch{
		Item: &domain.ContentItem{
			ID:        id,
			Class:     domain.ContentClassArticle,
			Title:     title,
			Body:      "Body of " + title,
			Category:  category,
			Verified:  true,
			CreatedAt: createdAt,
		},
		Similarity: similarity,
	}
}

func chunkMatch(id, lessonID string, chunkIndex int, similarity float64) *IndexMatch {
	return &IndexMatch{
		Item: &domain.ContentItem{
			ID:         id,
			Class:      domain.ContentClassLessonChunk,
			Title:      "Lesson " + lessonID,
			Body:       "Chunk body.",
			LessonID:   lessonID,
			ChunkIndex: chunkIndex,
			CreatedAt:  time.Now(),
		},
		Similarity: similarity,
	}
}

func TestSearch_Success(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	now := time.Now()
	embedder.On("GenerateEmbedding", mock.Anything, "budgeting basics").Return(queryVector(), nil)
	index.On("Query", mock.Anything, queryVector(), mock.Anything, 10).Return([]*IndexMatch{
		articleMatch("a1", "Budgeting 101", "budgeting", 0.91, now),
		articleMatch("a2", "Envelope method", "budgeting", 0.84, now),
	}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.MatchedBy(func(rec *domain.SearchQueryRecord) bool {
		return rec.Query == "budgeting basics" && rec.ResultsCount == 2 && len(rec.QueryEmbedding) == domain.EmbeddingDimensions
	})).Return("search-1", nil)

	svc := NewSearchService(embedder, index, logs, nil)
	out, err := svc.Search(context.Background(), SearchInput{
		Query:   "  budgeting basics  ",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
	})

	require.NoError(t, err)
	assert.Equal(t, "search-1", out.SearchID)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "a1", out.Results[0].ContentID)
	assert.Equal(t, "a2", out.Results[1].ContentID)
	assert.Greater(t, out.Results[0].Similarity, out.Results[1].Similarity)
	embedder.AssertExpectations(t)
	index.AssertExpectations(t)
	logs.AssertExpectations(t)
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := NewSearchService(new(MockEmbeddingClient), new(MockVectorIndex), new(MockSearchLogStore), nil)

	_, err := svc.Search(context.Background(), SearchInput{Query: "   "})

	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
}

func TestSearch_QueriesEveryClassByDefault(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*IndexMatch{}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.Anything).Return("search-1", nil)

	svc := NewSearchService(embedder, index, logs, nil)
	_, err := svc.Search(context.Background(), SearchInput{Query: "compound interest"})

	require.NoError(t, err)
	index.AssertNumberOfCalls(t, "Query", len(domain.AllContentClasses))
}

func TestSearch_DeduplicatesLessonChunks(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*IndexMatch{
		chunkMatch("c1", "lesson-1", 0, 0.70),
		chunkMatch("c2", "lesson-1", 1, 0.88),
		chunkMatch("c3", "lesson-1", 2, 0.61),
		chunkMatch("c4", "lesson-2", 0, 0.75),
	}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.Anything).Return("search-1", nil)

	svc := NewSearchService(embedder, index, logs, nil)
	out, err := svc.Search(context.Background(), SearchInput{
		Query:   "saving",
		Classes: []domain.ContentClass{domain.ContentClassLessonChunk},
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "c2", out.Results[0].ContentID)
	assert.Equal(t, "c4", out.Results[1].ContentID)
}

func TestSearch_TieBreaksByRecency(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	older := time.Now().Add(-24 * time.Hour)
	newer := time.Now()
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*IndexMatch{
		articleMatch("old", "Old article", "credit", 0.8, older),
		articleMatch("new", "New article", "credit", 0.8, newer),
	}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.Anything).Return("search-1", nil)

	svc := NewSearchService(embedder, index, logs, nil)
	out, err := svc.Search(context.Background(), SearchInput{
		Query:   "credit score",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "new", out.Results[0].ContentID)
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	now := time.Now()
	matches := make([]*IndexMatch, 0, 5)
	for i := 0; i < 5; i++ {
		matches = append(matches, articleMatch(
			string(rune('a'+i)), "Article", "saving", 0.9-float64(i)*0.05, now,
		))
	}
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(matches, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.MatchedBy(func(rec *domain.SearchQueryRecord) bool {
		return rec.ResultsCount == 3
	})).Return("search-1", nil)

	svc := NewSearchService(embedder, index, logs, nil)
	out, err := svc.Search(context.Background(), SearchInput{
		Query:   "emergency fund",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
		Limit:   3,
	})

	require.NoError(t, err)
	assert.Len(t, out.Results, 3)
}

func TestSearch_RecordsQueryWithZeroResults(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*IndexMatch{}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.MatchedBy(func(rec *domain.SearchQueryRecord) bool {
		return rec.ResultsCount == 0
	})).Return("search-1", nil)

	svc := NewSearchService(embedder, index, logs, nil)
	out, err := svc.Search(context.Background(), SearchInput{
		Query:   "quantum chromodynamics",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
	})

	require.NoError(t, err)
	assert.Empty(t, out.Results)
	logs.AssertExpectations(t)
}

func TestSearch_EmbedderError(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).
		Return(nil, domain.ErrEmbeddingUnavailable)

	svc := NewSearchService(embedder, index, logs, nil)
	_, err := svc.Search(context.Background(), SearchInput{Query: "stocks"})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	index.AssertNotCalled(t, "Query")
	logs.AssertNotCalled(t, "CreateSearchQuery")
}

func TestSearch_IndexError(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrIndexUnavailable)

	svc := NewSearchService(embedder, index, logs, nil)
	_, err := svc.Search(context.Background(), SearchInput{
		Query:   "bonds",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
	})

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	logs.AssertNotCalled(t, "CreateSearchQuery")
}

func TestSearch_Timeout(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(nil, context.DeadlineExceeded)

	svc := NewSearchService(embedder, index, logs, nil).WithTimeout(20 * time.Millisecond)
	_, err := svc.Search(context.Background(), SearchInput{
		Query:   "inflation",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
	})

	assert.ErrorIs(t, err, domain.ErrQueryTimeout)
	logs.AssertNotCalled(t, "CreateSearchQuery")
}

func TestSearch_NotifiesSink(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)
	sink := new(MockInteractionSink)

	notified := make(chan struct{})
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*IndexMatch{
		articleMatch("a1", "Taxes explained", "taxes", 0.8, time.Now()),
	}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.Anything).Return("search-1", nil)
	sink.On("RecordSearch", mock.Anything, "user-7", "taxes", 1).
		Run(func(mock.Arguments) { close(notified) }).
		Return(nil)

	svc := NewSearchService(embedder, index, logs, sink)
	_, err := svc.Search(context.Background(), SearchInput{
		Query:   "taxes",
		UserID:  "user-7",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
	})
	require.NoError(t, err)

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("sink was not notified")
	}
	sink.AssertExpectations(t)
}

func TestSearch_SinkFailureDoesNotFailSearch(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)
	sink := new(MockInteractionSink)

	published := make(chan struct{})
	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*IndexMatch{}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.Anything).Return("search-1", nil)
	sink.On("RecordSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(published) }).
		Return(errors.New("broker down"))

	svc := NewSearchService(embedder, index, logs, sink)
	out, err := svc.Search(context.Background(), SearchInput{
		Query:   "retirement",
		UserID:  "user-1",
		Classes: []domain.ContentClass{domain.ContentClassArticle},
	})

	require.NoError(t, err)
	assert.NotNil(t, out)
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("sink publish never attempted")
	}
}

func TestSearch_AnonymousSkipsSink(t *testing.T) {
	embedder := new(MockEmbeddingClient)
	index := new(MockVectorIndex)
	logs := new(MockSearchLogStore)
	sink := new(MockInteractionSink)

	embedder.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(queryVector(), nil)
	index.On("Query", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]*IndexMatch{}, nil)
	logs.On("CreateSearchQuery", mock.Anything, mock.Anything).Return("search-1", nil)

	svc := NewSearchService(embedder, index, logs, sink)
	_, err := svc.Search(context.Background(), SearchInput{Query: "loans"})

	require.NoError(t, err)
	sink.AssertNotCalled(t, "RecordSearch")
}

func TestRecordClick(t *testing.T) {
	logs := new(MockSearchLogStore)
	logs.On("RecordClick", mock.Anything, "search-1", "content-1").Return(nil)

	svc := NewSearchService(new(MockEmbeddingClient), new(MockVectorIndex), logs, nil)
	err := svc.RecordClick(context.Background(), "search-1", "content-1")

	require.NoError(t, err)
	logs.AssertExpectations(t)
}

func TestRecordClick_MissingIDs(t *testing.T) {
	svc := NewSearchService(new(MockEmbeddingClient), new(MockVectorIndex), new(MockSearchLogStore), nil)

	err := svc.RecordClick(context.Background(), "", "content-1")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeValidation, domainErr.Code)
}

func TestMakeSnippet(t *testing.T) {
	short := "A short body."
	assert.Equal(t, short, makeSnippet(short))

	long := strings.Repeat("saving money ", 40)
	snippet := makeSnippet(long)
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.LessOrEqual(t, len([]rune(snippet)), snippetMaxChars+3)
}
