package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

func createTestRun(id string, started time.Time) *domain.PipelineRun {
	return &domain.PipelineRun{
		RunID:     id,
		Kind:      domain.RunKindFull,
		InputPath: "data/price_changes.csv",
		StartedAt: started,
		Status:    domain.RunStatusRunning,
		RecordsIn: 25,
	}
}

func TestRunStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunStore(pool)
	started := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, createTestRun("run-001", started)))

	got, err := store.GetByID(ctx, "run-001")
	require.NoError(t, err)
	assert.Equal(t, domain.RunKindFull, got.Kind)
	assert.Equal(t, domain.RunStatusRunning, got.Status)
	assert.Equal(t, 25, got.RecordsIn)
	assert.True(t, got.StartedAt.Equal(started))
}

func TestRunStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunStore(pool)
	started := time.Now().UTC()

	require.NoError(t, store.Insert(ctx, createTestRun("run-001", started)))
	err := store.Insert(ctx, createTestRun("run-001", started))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestRunStore_Finish(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunStore(pool)
	started := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
	finished := started.Add(3 * time.Second)

	require.NoError(t, store.Insert(ctx, createTestRun("run-001", started)))
	require.NoError(t, store.Finish(ctx, "run-001", domain.RunStatusFailed, "upstream missing", finished, 0))

	got, err := store.GetByID(ctx, "run-001")
	require.NoError(t, err)
	assert.Equal(t, domain.RunStatusFailed, got.Status)
	assert.Equal(t, "upstream missing", got.Error)
	assert.True(t, got.FinishedAt.Equal(finished))
}

func TestRunStore_FinishMissingRun(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRunStore(pool)
	err := store.Finish(context.Background(), "missing", domain.RunStatusSucceeded, "", time.Now(), 0)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunStore_GetRecent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewRunStore(pool)
	base := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, createTestRun("run-001", base)))
	require.NoError(t, store.Insert(ctx, createTestRun("run-002", base.Add(time.Hour))))
	require.NoError(t, store.Insert(ctx, createTestRun("run-003", base.Add(2*time.Hour))))

	got, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "run-003", got[0].RunID)
	assert.Equal(t, "run-002", got[1].RunID)
}
