package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/pagination"
	"github.com/brightpath-learning/brightpath/internal/service"
)

const contentColumns = `id, content_class, title, body, category, difficulty, verified, source, lesson_id, chunk_index, created_at, updated_at`

// ContentRepository reads content items for recommendation, listing, and
// concept lookups.
type ContentRepository struct {
	db dbtx
}

func NewContentRepository(pool *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{db: pool}
}

func (r *ContentRepository) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+contentColumns+` FROM content_items WHERE id = $1`,
		id,
	)
	item, err := scanContentItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContentNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListRecentVerified returns the newest verified articles and concepts.
// Lesson chunks are fragments, not recommendable on their own.
func (r *ContentRepository) ListRecentVerified(ctx context.Context, limit int) ([]*domain.ContentItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+contentColumns+`
		 FROM content_items
		 WHERE verified AND content_class <> $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		domain.ContentClassLessonChunk, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContentRows(rows)
}

func (r *ContentRepository) ListVerifiedByCategory(ctx context.Context, category string, limit int) ([]*domain.ContentItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+contentColumns+`
		 FROM content_items
		 WHERE verified AND category = $1 AND content_class <> $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		category, domain.ContentClassLessonChunk, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanContentRows(rows)
}

// ListWithCursor pages through content newest-first using keyset pagination
// on (created_at, id).
func (r *ContentRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int, class domain.ContentClass) (*service.ContentPage, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+contentColumns+`
			 FROM content_items
			 WHERE ($1::text IS NULL OR content_class = $1)
			   AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			nullableString(string(class)), cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+contentColumns+`
			 FROM content_items
			 WHERE ($1::text IS NULL OR content_class = $1)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			nullableString(string(class)), limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanContentRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.CreatedAt)
	}

	return &service.ContentPage{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// GetConceptByTerm resolves a concept by its term, case-insensitively. The
// embedding comes back too since callers use it for nearest-neighbor lookup.
func (r *ContentRepository) GetConceptByTerm(ctx context.Context, term string) (*domain.ContentItem, error) {
	var item domain.ContentItem
	var category, difficulty *string
	var embedding *pgvector.Vector
	err := r.db.QueryRow(ctx,
		`SELECT id, content_class, title, body, category, difficulty, verified, embedding, created_at, updated_at
		 FROM content_items
		 WHERE content_class = $1 AND lower(title) = lower($2)`,
		domain.ContentClassConcept, term,
	).Scan(&item.ID, &item.Class, &item.Title, &item.Body, &category, &difficulty, &item.Verified, &embedding, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContentNotFound
		}
		return nil, err
	}
	if category != nil {
		item.Category = *category
	}
	if difficulty != nil {
		item.Difficulty = domain.Difficulty(*difficulty)
	}
	if embedding != nil {
		item.Embedding = embedding.Slice()
	}
	return &item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContentItem(row rowScanner) (*domain.ContentItem, error) {
	var item domain.ContentItem
	var category, difficulty, source, lessonID *string
	var chunkIndex *int
	err := row.Scan(
		&item.ID, &item.Class, &item.Title, &item.Body,
		&category, &difficulty, &item.Verified, &source,
		&lessonID, &chunkIndex, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if category != nil {
		item.Category = *category
	}
	if difficulty != nil {
		item.Difficulty = domain.Difficulty(*difficulty)
	}
	if source != nil {
		item.Source = *source
	}
	if lessonID != nil {
		item.LessonID = *lessonID
	}
	if chunkIndex != nil {
		item.ChunkIndex = *chunkIndex
	}
	return &item, nil
}

func scanContentRows(rows pgx.Rows) ([]*domain.ContentItem, error) {
	var items []*domain.ContentItem
	for rows.Next() {
		item, err := scanContentItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanContentMatch(rows pgx.Rows) (*domain.ContentItem, float64, error) {
	var item domain.ContentItem
	var category, difficulty, source, lessonID *string
	var chunkIndex *int
	var similarity float64
	err := rows.Scan(
		&item.ID, &item.Class, &item.Title, &item.Body,
		&category, &difficulty, &item.Verified, &source,
		&lessonID, &chunkIndex, &item.CreatedAt, &item.UpdatedAt,
		&similarity,
	)
	if err != nil {
		return nil, 0, err
	}
	if category != nil {
		item.Category = *category
	}
	if difficulty != nil {
		item.Difficulty = domain.Difficulty(*difficulty)
	}
	if source != nil {
		item.Source = *source
	}
	if lessonID != nil {
		item.LessonID = *lessonID
	}
	if chunkIndex != nil {
		item.ChunkIndex = *chunkIndex
	}
	if similarity < 0 {
		similarity = 0
	}
	if similarity > 1 {
		similarity = 1
	}
	return &item, similarity, nil
}
