package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/mhasan/chatwave/internal/domain"
	"github.com/mhasan/chatwave/internal/repository/postgres"
	"github.com/mhasan/chatwave/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRepository_UpsertReplacesHandle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewConnectionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	first := &domain.ConnectionRecord{
		UserID:      user.ID,
		HandleID:    "handle-1",
		ClientInfo:  []byte(`{"userAgent":"test"}`),
		ConnectedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	// Re-registering the same user replaces the mirror row, matching the
	// registry's last-write-wins.
	second := &domain.ConnectionRecord{
		UserID:      user.ID,
		HandleID:    "handle-2",
		ClientInfo:  []byte(`{"userAgent":"test"}`),
		ConnectedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "handle-2", got.HandleID)
}

func TestConnectionRepository_DeleteStaleHandle(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewConnectionRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	record := &domain.ConnectionRecord{
		UserID:      user.ID,
		HandleID:    "current",
		ClientInfo:  []byte(`{}`),
		ConnectedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, record))

	// Deleting with a stale handle leaves the current row alone.
	require.NoError(t, repo.Delete(ctx, user.ID, "stale"))
	got, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "current", got.HandleID)

	// Deleting with the live handle removes it.
	require.NoError(t, repo.Delete(ctx, user.ID, "current"))
	_, err = repo.GetByUserID(ctx, user.ID)
	assert.Error(t, err)
}
