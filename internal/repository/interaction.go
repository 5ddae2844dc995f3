package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpath-learning/brightpath/internal/domain"
)

// InteractionRepository reads user interaction history. Writes arrive
// through the event pipeline, not this service.
type InteractionRepository struct {
	pool *pgxpool.Pool
}

func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{pool: pool}
}

func (r *InteractionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.InteractionEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, interaction_type, content_id, query, duration_seconds, rating, created_at
		 FROM user_interactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.InteractionEvent
	for rows.Next() {
		var event domain.InteractionEvent
		var contentID, query *string
		var duration *int32
		if err := rows.Scan(&event.ID, &event.UserID, &event.Kind, &contentID, &query, &duration, &event.Rating, &event.CreatedAt); err != nil {
			return nil, err
		}
		if contentID != nil {
			event.ContentID = *contentID
		}
		if query != nil {
			event.Query = *query
		}
		if duration != nil {
			event.DurationSeconds = int(*duration)
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}
