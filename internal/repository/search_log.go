package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/brightpath-learning/brightpath/internal/domain"
)

// SearchLogRepository stores search query records for feedback loops and
// relevance evaluation.
type SearchLogRepository struct {
	pool *pgxpool.Pool
}

func NewSearchLogRepository(pool *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{pool: pool}
}

func (r *SearchLogRepository) CreateSearchQuery(ctx context.Context, rec *domain.SearchQueryRecord) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO search_queries (id, user_id, query, query_embedding, results_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		rec.ID,
		nullableString(rec.UserID),
		rec.Query,
		embeddingOrNil(rec.QueryEmbedding),
		rec.ResultsCount,
		rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RecordClick sets the clicked result once. A second click on the same
// search is rejected rather than overwriting the first.
func (r *SearchLogRepository) RecordClick(ctx context.Context, searchID, contentID string) error {
	cmdTag, err := r.pool.Exec(ctx,
		`UPDATE search_queries
		 SET clicked_result_id = $1
		 WHERE id = $2 AND clicked_result_id IS NULL`,
		contentID, searchID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() > 0 {
		return nil
	}

	var existing *string
	err = r.pool.QueryRow(ctx,
		`SELECT clicked_result_id FROM search_queries WHERE id = $1`,
		searchID,
	).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrSearchQueryNotFound
		}
		return err
	}
	return domain.ErrClickAlreadyRecorded
}

// GetByID returns a recorded search query. Used by evaluation tooling.
func (r *SearchLogRepository) GetByID(ctx context.Context, id string) (*domain.SearchQueryRecord, error) {
	var rec domain.SearchQueryRecord
	var userID, clickedResultID *string
	var embedding *pgvector.Vector
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, query, query_embedding, results_count, clicked_result_id, created_at
		 FROM search_queries WHERE id = $1`,
		id,
	).Scan(&rec.ID, &userID, &rec.Query, &embedding, &rec.ResultsCount, &clickedResultID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSearchQueryNotFound
		}
		return nil, err
	}
	if userID != nil {
		rec.UserID = *userID
	}
	if clickedResultID != nil {
		rec.ClickedResultID = *clickedResultID
	}
	if embedding != nil {
		rec.QueryEmbedding = embedding.Slice()
	}
	return &rec, nil
}
