package clickhouse

import (
	"context"
	"fmt"
	"time"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

// ObservationStore implements storage.ObservationStore using ClickHouse.
// The price_observations table is a ReplacingMergeTree keyed on
// (sku, week), so duplicate weeks collapse to the newest insert.
type ObservationStore struct {
	conn *Conn
}

// NewObservationStore creates a new ObservationStore.
func NewObservationStore(conn *Conn) *ObservationStore {
	return &ObservationStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ObservationStore = (*ObservationStore)(nil)

// InsertBulk adds observations. Duplicate (sku, week) pairs are
// last-write-wins via the merge tree.
func (s *ObservationStore) InsertBulk(ctx context.Context, obs []domain.PriceObservation) error {
	if len(obs) == 0 {
		return nil
	}
	for _, o := range obs {
		if o.SKU == "" || o.Week.IsZero() {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_observations (
			sku, brand, pack_size, pack_volume_ml, pack_type, week, price
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, o := range obs {
		err = batch.Append(
			o.SKU, o.Brand, o.PackSize, o.PackVolumeML, o.PackType,
			o.Week.UTC(), o.Price,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

const selectObservationColumns = `sku, brand, pack_size, pack_volume_ml, pack_type, week, price`

// GetBySku retrieves all observations for one SKU, week ascending.
func (s *ObservationStore) GetBySku(ctx context.Context, sku string) ([]domain.PriceObservation, error) {
	query := `
		SELECT ` + selectObservationColumns + `
		FROM price_observations FINAL
		WHERE sku = ?
		ORDER BY week ASC
	`

	result, err := s.queryObservations(ctx, query, sku)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// GetAll retrieves every observation, SKU then week ascending.
func (s *ObservationStore) GetAll(ctx context.Context) ([]domain.PriceObservation, error) {
	query := `
		SELECT ` + selectObservationColumns + `
		FROM price_observations FINAL
		ORDER BY sku ASC, week ASC
	`
	return s.queryObservations(ctx, query)
}

// GetByWeekRange retrieves observations within [start, end] inclusive.
func (s *ObservationStore) GetByWeekRange(ctx context.Context, start, end time.Time) ([]domain.PriceObservation, error) {
	query := `
		SELECT ` + selectObservationColumns + `
		FROM price_observations FINAL
		WHERE week >= ? AND week <= ?
		ORDER BY sku ASC, week ASC
	`
	return s.queryObservations(ctx, query, start.UTC(), end.UTC())
}

func (s *ObservationStore) queryObservations(ctx context.Context, query string, args ...any) ([]domain.PriceObservation, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price observations: %w", err)
	}
	defer rows.Close()

	var result []domain.PriceObservation
	for rows.Next() {
		var o domain.PriceObservation
		err := rows.Scan(&o.SKU, &o.Brand, &o.PackSize, &o.PackVolumeML, &o.PackType, &o.Week, &o.Price)
		if err != nil {
			return nil, fmt.Errorf("scan price observation: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price observations: %w", err)
	}
	return result, nil
}
