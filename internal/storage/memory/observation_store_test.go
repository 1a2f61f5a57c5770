package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

func week(day int) time.Time {
	return time.Date(2025, 9, day, 0, 0, 0, 0, time.UTC)
}

func obs(sku string, w time.Time, price float64) domain.PriceObservation {
	return domain.PriceObservation{
		SKU:   sku,
		Brand: "Lagerhaus",
		Week:  w,
		Price: price,
	}
}

func TestObservationStore_InsertAndGetBySku(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []domain.PriceObservation{
		obs("SKU-1", week(8), 10.50),
		obs("SKU-1", week(1), 10.00),
		obs("SKU-2", week(1), 5.00),
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetBySku(ctx, "SKU-1")
	if err != nil {
		t.Fatalf("GetBySku failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(got))
	}
	// Week ascending.
	if !got[0].Week.Equal(week(1)) || !got[1].Week.Equal(week(8)) {
		t.Errorf("order mismatch: %v, %v", got[0].Week, got[1].Week)
	}
}

func TestObservationStore_DuplicateWeekLastWins(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []domain.PriceObservation{obs("SKU-1", week(1), 10.00)})
	_ = store.InsertBulk(ctx, []domain.PriceObservation{obs("SKU-1", week(1), 11.00)})

	got, err := store.GetBySku(ctx, "SKU-1")
	if err != nil {
		t.Fatalf("GetBySku failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(got))
	}
	if got[0].Price != 11.00 {
		t.Errorf("expected last write to win, got price %.2f", got[0].Price)
	}
}

func TestObservationStore_InvalidInput(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []domain.PriceObservation{obs("", week(1), 10.00)})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty sku: expected ErrInvalidInput, got %v", err)
	}

	err = store.InsertBulk(ctx, []domain.PriceObservation{{SKU: "SKU-1", Price: 10.00}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("zero week: expected ErrInvalidInput, got %v", err)
	}
}

func TestObservationStore_NotFound(t *testing.T) {
	store := NewObservationStore()

	_, err := store.GetBySku(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestObservationStore_GetAllGroupsBySku(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []domain.PriceObservation{
		obs("SKU-2", week(1), 5.00),
		obs("SKU-1", week(8), 10.50),
		obs("SKU-1", week(1), 10.00),
	})

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 observations, got %d", len(got))
	}
	// SKU ascending, weeks ascending within SKU.
	if got[0].SKU != "SKU-1" || !got[0].Week.Equal(week(1)) {
		t.Errorf("unexpected first row: %+v", got[0])
	}
	if got[2].SKU != "SKU-2" {
		t.Errorf("unexpected last row: %+v", got[2])
	}
}

func TestObservationStore_GetByWeekRange(t *testing.T) {
	store := NewObservationStore()
	ctx := context.Background()

	_ = store.InsertBulk(ctx, []domain.PriceObservation{
		obs("SKU-1", week(1), 10.00),
		obs("SKU-1", week(8), 10.50),
		obs("SKU-1", week(15), 11.00),
	})

	got, err := store.GetByWeekRange(ctx, week(1), week(8))
	if err != nil {
		t.Fatalf("GetByWeekRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 observations in range, got %d", len(got))
	}
}
