//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpath-learning/brightpath/internal/domain"
	"github.com/brightpath-learning/brightpath/internal/testutil"
)

func TestRecommendationRepository_CreateBatchAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRecommendationRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	recs := []*domain.Recommendation{
		{
			ID:           uuid.NewString(),
			UserID:       "user-1",
			ContentID:    uuid.NewString(),
			ContentClass: domain.ContentClassArticle,
			Kind:         domain.RecommendationTrending,
			Score:        0.8,
			Reason:       "trending content",
			CreatedAt:    now,
		},
		{
			ID:           uuid.NewString(),
			UserID:       "user-1",
			ContentID:    uuid.NewString(),
			ContentClass: domain.ContentClassConcept,
			Kind:         domain.RecommendationPersonalized,
			Score:        0.6,
			Reason:       `based on your interest in "investing"`,
			CreatedAt:    now,
		},
	}
	require.NoError(t, repo.CreateBatch(ctx, recs))

	stored, err := repo.ListByUser(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, rec := range stored {
		assert.False(t, rec.Shown)
		assert.False(t, rec.Clicked)
	}

	other, err := repo.ListByUser(ctx, "user-2", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRecommendationRepository_CreateBatch_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewRecommendationRepository(pool)
	assert.NoError(t, repo.CreateBatch(ctx, nil))
}
