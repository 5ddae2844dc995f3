package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-learning/brightpath/internal/domain"
)

// RecommendationRepository persists generated recommendations.
type RecommendationRepository struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepository(pool *pgxpool.Pool) *RecommendationRepository {
	return &RecommendationRepository{pool: pool}
}

// CreateBatch inserts a batch of recommendations in one transaction.
func (r *RecommendationRepository) CreateBatch(ctx context.Context, recs []*domain.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range recs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO content_recommendations
				(id, user_id, content_id, content_class, kind, score, reason, is_shown, is_clicked, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			rec.ID, rec.UserID, rec.ContentID, rec.ContentClass, rec.Kind,
			rec.Score, rec.Reason, rec.Shown, rec.Clicked, rec.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListByUser returns a user's stored recommendations, newest first.
func (r *RecommendationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, content_id, content_class, kind, score, reason, is_shown, is_clicked, created_at
		 FROM content_recommendations
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecommendationRows(rows)
}

func scanRecommendationRows(rows pgx.Rows) ([]*domain.Recommendation, error) {
	var recs []*domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ContentID, &rec.ContentClass, &rec.Kind, &rec.Score, &rec.Reason, &rec.Shown, &rec.Clicked, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
