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

func TestSearchLogRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewSearchLogRepository(pool)

	rec := &domain.SearchQueryRecord{
		ID:             uuid.NewString(),
		UserID:         "user-1",
		Query:          "how to budget",
		QueryEmbedding: testVector(0),
		ResultsCount:   3,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
	id, err := repo.CreateSearchQuery(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "how to budget", stored.Query)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, 3, stored.ResultsCount)
	assert.Empty(t, stored.ClickedResultID)
}

func TestSearchLogRepository_AnonymousQuery(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewSearchLogRepository(pool)

	rec := &domain.SearchQueryRecord{
		ID:        uuid.NewString(),
		Query:     "what is a bond",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	id, err := repo.CreateSearchQuery(ctx, rec)
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stored.UserID)
}

func TestSearchLogRepository_RecordClick_SetOnce(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewSearchLogRepository(pool)

	rec := &domain.SearchQueryRecord{
		ID:        uuid.NewString(),
		Query:     "credit score",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	id, err := repo.CreateSearchQuery(ctx, rec)
	require.NoError(t, err)

	first := uuid.NewString()
	require.NoError(t, repo.RecordClick(ctx, id, first))

	err = repo.RecordClick(ctx, id, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrClickAlreadyRecorded)

	stored, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, first, stored.ClickedResultID)
}

func TestSearchLogRepository_RecordClick_UnknownSearch(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)
	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewSearchLogRepository(pool)

	err := repo.RecordClick(ctx, uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrSearchQueryNotFound)
}
