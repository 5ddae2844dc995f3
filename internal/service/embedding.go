package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/telemetry"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IndexFilters restrict a vector query. An absent filter means no
// restriction.
type IndexFilters struct {
	Classes      []domain.ContentClass
	Categories   []string
	Difficulties []domain.Difficulty
}

// IndexMatch is one ranked vector query hit.
type IndexMatch struct {
	Item       *domain.ContentItem
	Similarity float64
}

// VectorIndex owns embedding storage and similarity ranking. Implementations
// must keep per-lesson chunk replacement atomic: readers never observe a mix
// of old and new chunks.
type VectorIndex interface {
	Upsert(ctx context.Context, item *domain.ContentItem) error
	SetEmbedding(ctx context.Context, contentID string, embedding []float32) error
	ReplaceLessonChunks(ctx context.Context, lessonID string, chunks []*domain.ContentItem) error
	Query(ctx context.Context, vector []float32, filters IndexFilters, limit int) ([]*IndexMatch, error)
}

// ContentStore resolves content references from the business-entity store.
// Read-only from this core's perspective.
type ContentStore interface {
	GetByID(ctx context.Context, id string) (*domain.ContentItem, error)
	ListRecentVerified(ctx context.Context, limit int) ([]*domain.ContentItem, error)
	ListVerifiedByCategory(ctx context.Context, category string, limit int) ([]*domain.ContentItem, error)
}

// EmbeddingJobStore enqueues async embedding work.
type EmbeddingJobStore interface {
	Create(ctx context.Context, job *domain.EmbeddingJob) error
}

// IndexService handles the content write path: creating items, generating
// embeddings, and lesson re-indexing.
type IndexService struct {
	client   EmbeddingClient
	content  ContentStore
	index    VectorIndex
	jobs     EmbeddingJobStore
	chunkCfg ChunkConfig
	now      func() time.Time
}

// NewIndexService creates a new IndexService instance
func NewIndexService(client EmbeddingClient, content ContentStore, index VectorIndex, jobs EmbeddingJobStore) *IndexService {
	return &IndexService{
		client:   client,
		content:  content,
		index:    index,
		jobs:     jobs,
		chunkCfg: DefaultChunkConfig(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// IndexContentInput describes a knowledge article or concept to index.
type IndexContentInput struct {
	Class      domain.ContentClass
	Title      string
	Body       string
	Category   string
	Difficulty domain.Difficulty
	Source     string
	Verified   bool
}

// IndexContent stores a new article or concept and enqueues its embedding.
// Indexing the same identifier again replaces the stored item, so the
// operation is idempotent per content reference.
func (s *IndexService) IndexContent(ctx context.Context, input IndexContentInput) (*domain.ContentItem, error) {
	if input.Class == domain.ContentClassLessonChunk {
		return nil, fmt.Errorf("%w: lesson chunks are indexed via ReindexLesson", domain.ErrInvalidContentClass)
	}

	now := s.now()
	var item *domain.ContentItem
	switch input.Class {
	case domain.ContentClassArticle:
		item = domain.NewArticle(uuid.NewString(), input.Title, input.Body, input.Category, input.Difficulty, input.Source, input.Verified, now)
	case domain.ContentClassConcept:
		item = domain.NewConcept(uuid.NewString(), input.Title, input.Body, input.Category, input.Difficulty, input.Verified, now)
	default:
		return nil, domain.ErrInvalidContentClass
	}

	if err := domain.ValidateContentItem(item); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid content item", err)
	}

	if err := s.index.Upsert(ctx, item); err != nil {
		return nil, err
	}

	job := domain.NewEmbeddingJob(uuid.NewString(), item.ID, now)
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue embedding job: %w", err)
	}

	return item, nil
}

// GenerateEmbedding generates and stores the embedding for a content item.
// Called by the background worker.
func (s *IndexService) GenerateEmbedding(ctx context.Context, contentID string) error {
	ctx, span := telemetry.StartSpan(ctx, "IndexService.GenerateEmbedding", telemetry.SpanAttributes{
		ContentID: contentID,
		Operation: "embed",
	})
	defer span.End()

	item, err := s.content.GetByID(ctx, contentID)
	if err != nil {
		return err
	}

	embedding, err := s.client.GenerateEmbedding(ctx, buildEmbeddingText(item))
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	if err := s.index.SetEmbedding(ctx, contentID, embedding); err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}

	return nil
}

// ReindexLessonInput carries a lesson's text and metadata for re-indexing.
type ReindexLessonInput struct {
	LessonID   string
	Title      string
	Category   string
	Difficulty domain.Difficulty
	Content    string
}

// ReindexLesson chunks the lesson, embeds every chunk, and atomically
// replaces the lesson's previous chunk set. Any embedding failure aborts the
// whole operation and leaves the old chunks in place.
func (s *IndexService) ReindexLesson(ctx context.Context, input ReindexLessonInput) ([]*domain.ContentItem, error) {
	if input.LessonID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "lesson ID is required")
	}

	ctx, span := telemetry.StartSpan(ctx, "IndexService.ReindexLesson", telemetry.SpanAttributes{
		LessonID:  input.LessonID,
		Operation: "reindex",
	})
	defer span.End()

	chunks := chunkText(input.Content, s.chunkCfg)
	now := s.now()

	items := make([]*domain.ContentItem, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := s.client.GenerateEmbedding(ctx, chunk.Content)
		if err != nil {
			span.SetError(err)
			return nil, fmt.Errorf("failed to embed chunk %d of lesson %s: %w", chunk.Index, input.LessonID, err)
		}

		item := domain.NewLessonChunk(
			uuid.NewString(), input.LessonID, chunk.Index,
			input.Title, chunk.Content, input.Category, input.Difficulty, now,
		)
		item.Embedding = embedding
		items = append(items, item)
	}

	if err := s.index.ReplaceLessonChunks(ctx, input.LessonID, items); err != nil {
		return nil, err
	}

	return items, nil
}

// BatchResult reports the outcome of a bulk indexing run.
type BatchResult struct {
	Indexed int
	Skipped int
}

// IndexBatch embeds and indexes a batch of items. A per-item provider
// failure is recoverable here: the item is logged and skipped, the batch
// continues, and the skip count is reported. Storage errors stay fatal.
func (s *IndexService) IndexBatch(ctx context.Context, items []*domain.ContentItem) (*BatchResult, error) {
	result := &BatchResult{}
	for _, item := range items {
		if err := domain.ValidateContentItem(item); err != nil {
			log.Printf("index batch: skipping invalid item %q: %v", item.Title, err)
			result.Skipped++
			continue
		}

		embedding, err := s.client.GenerateEmbedding(ctx, buildEmbeddingText(item))
		if err != nil {
			if errors.Is(err, domain.ErrEmbeddingUnavailable) {
				log.Printf("index batch: skipping %s: %v", item.ID, err)
				result.Skipped++
				continue
			}
			return result, err
		}
		item.Embedding = embedding

		if err := s.index.Upsert(ctx, item); err != nil {
			return result, err
		}
		result.Indexed++
	}
	return result, nil
}

func buildEmbeddingText(item *domain.ContentItem) string {
	if item.Title == "" {
		return item.Body
	}
	return item.Title + "\n\n" + item.Body
}
