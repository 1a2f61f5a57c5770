package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

func testObs(sku string, week time.Time, price float64) domain.PriceObservation {
	return domain.PriceObservation{
		SKU:          sku,
		Brand:        "Lagerhaus",
		PackSize:     "12",
		PackVolumeML: 355,
		PackType:     "can",
		Week:         week,
		Price:        price,
	}
}

func TestObservationStore_InsertBulkAndGetBySku(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewObservationStore(conn)
	w1 := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	w2 := time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertBulk(ctx, []domain.PriceObservation{
		testObs("SKU-1", w2, 10.50),
		testObs("SKU-1", w1, 10.00),
		testObs("SKU-2", w1, 5.00),
	}))

	got, err := store.GetBySku(ctx, "SKU-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Week.Equal(w1))
	assert.True(t, got[1].Week.Equal(w2))
	assert.Equal(t, 10.00, got[0].Price)
	assert.Equal(t, "Lagerhaus", got[0].Brand)
}

func TestObservationStore_GetBySkuNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewObservationStore(conn)
	_, err := store.GetBySku(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestObservationStore_DuplicateWeekLastWins(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewObservationStore(conn)
	w := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertBulk(ctx, []domain.PriceObservation{testObs("SKU-1", w, 10.00)}))
	// ReplacingMergeTree keys on (sku, week); the later insert wins.
	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, store.InsertBulk(ctx, []domain.PriceObservation{testObs("SKU-1", w, 11.00)}))

	got, err := store.GetBySku(ctx, "SKU-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 11.00, got[0].Price)
}

func TestObservationStore_InvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewObservationStore(conn)
	err := store.InsertBulk(context.Background(), []domain.PriceObservation{
		{SKU: "", Week: time.Now(), Price: 1.0},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestObservationStore_GetByWeekRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewObservationStore(conn)
	w1 := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	w2 := time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC)
	w3 := time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertBulk(ctx, []domain.PriceObservation{
		testObs("SKU-1", w1, 10.00),
		testObs("SKU-1", w2, 10.50),
		testObs("SKU-1", w3, 11.00),
	}))

	got, err := store.GetByWeekRange(ctx, w1, w2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
