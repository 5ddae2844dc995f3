package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/service"
)

// IndexRepository is the pgvector-backed implementation of the vector index.
type IndexRepository struct {
	pool *pgxpool.Pool
}

func NewIndexRepository(pool *pgxpool.Pool) *IndexRepository {
	return &IndexRepository{pool: pool}
}

// Upsert inserts or replaces a content item by ID.
func (r *IndexRepository) Upsert(ctx context.Context, item *domain.ContentItem) error {
	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO content_items
			(id, content_class, title, body, category, difficulty, verified, source, lesson_id, chunk_index, embedding, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
			content_class = EXCLUDED.content_class,
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			category = EXCLUDED.category,
			difficulty = EXCLUDED.difficulty,
			verified = EXCLUDED.verified,
			source = EXCLUDED.source,
			lesson_id = EXCLUDED.lesson_id,
			chunk_index = EXCLUDED.chunk_index,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at`,
		item.ID, item.Class, item.Title, item.Body,
		nullableString(item.Category), nullableString(string(item.Difficulty)),
		item.Verified, nullableString(item.Source),
		nullableString(item.LessonID), chunkIndexOrNil(item),
		embeddingOrNil(item.Embedding), item.CreatedAt, updatedAt,
	)
	if err != nil {
		return indexUnavailable(err)
	}
	return nil
}

// SetEmbedding attaches a generated embedding to an existing item.
func (r *IndexRepository) SetEmbedding(ctx context.Context, contentID string, embedding []float32) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE content_items SET embedding = $1, updated_at = $2 WHERE id = $3`,
		pgvector.NewVector(embedding), time.Now().UTC(), contentID,
	)
	if err != nil {
		return indexUnavailable(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

// ReplaceLessonChunks swaps a lesson's chunk set in one transaction. The
// advisory lock serializes concurrent replacements of the same lesson, and
// the transaction keeps readers on the old generation until commit.
func (r *IndexRepository) ReplaceLessonChunks(ctx context.Context, lessonID string, chunks []*domain.ContentItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return indexUnavailable(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lessonID); err != nil {
		return indexUnavailable(err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM content_items WHERE content_class = $1 AND lesson_id = $2`,
		domain.ContentClassLessonChunk, lessonID,
	); err != nil {
		return indexUnavailable(err)
	}

	for _, chunk := range chunks {
		if _, err := tx.Exec(ctx,
			`INSERT INTO content_items
				(id, content_class, title, body, category, difficulty, verified, lesson_id, chunk_index, embedding, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			chunk.ID, chunk.Class, chunk.Title, chunk.Body,
			nullableString(chunk.Category), nullableString(string(chunk.Difficulty)),
			chunk.Verified, chunk.LessonID, chunk.ChunkIndex,
			embeddingOrNil(chunk.Embedding), chunk.CreatedAt, chunk.CreatedAt,
		); err != nil {
			return indexUnavailable(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return indexUnavailable(err)
	}
	return nil
}

// Query ranks embedded items by cosine similarity. Items awaiting their
// embedding are excluded rather than ranked at zero.
func (r *IndexRepository) Query(ctx context.Context, vector []float32, filters service.IndexFilters, limit int) ([]*service.IndexMatch, error) {
	classes := make([]string, 0, len(filters.Classes))
	for _, c := range filters.Classes {
		classes = append(classes, string(c))
	}
	difficulties := make([]string, 0, len(filters.Difficulties))
	for _, d := range filters.Difficulties {
		difficulties = append(difficulties, string(d))
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, content_class, title, body, category, difficulty, verified, source, lesson_id, chunk_index, created_at, updated_at,
		        1 - (embedding <=> $1) AS similarity
		 FROM content_items
		 WHERE embedding IS NOT NULL
		   AND ($2::text[] IS NULL OR content_class = ANY($2))
		   AND ($3::text[] IS NULL OR category = ANY($3))
		   AND ($4::text[] IS NULL OR difficulty = ANY($4))
		 ORDER BY similarity DESC, created_at DESC
		 LIMIT $5`,
		pgvector.NewVector(vector),
		textArrayOrNil(classes),
		textArrayOrNil(filters.Categories),
		textArrayOrNil(difficulties),
		limit,
	)
	if err != nil {
		return nil, indexUnavailable(err)
	}
	defer rows.Close()

	var matches []*service.IndexMatch
	for rows.Next() {
		item, similarity, err := scanContentMatch(rows)
		if err != nil {
			return nil, indexUnavailable(err)
		}
		matches = append(matches, &service.IndexMatch{Item: item, Similarity: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, indexUnavailable(err)
	}
	return matches, nil
}

func chunkIndexOrNil(item *domain.ContentItem) *int {
	if item.Class != domain.ContentClassLessonChunk {
		return nil
	}
	idx := item.ChunkIndex
	return &idx
}

func embeddingOrNil(embedding []float32) any {
	if embedding == nil {
		return nil
	}
	return pgvector.NewVector(embedding)
}
