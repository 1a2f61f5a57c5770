package clickhouse

import (
	"context"
	"fmt"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

// TrendStore implements storage.TrendStore using ClickHouse. The
// trend_statistics table is a ReplacingMergeTree keyed on
// (run_id, sku), giving Upsert its replace semantics.
type TrendStore struct {
	conn *Conn
}

// NewTrendStore creates a new TrendStore.
func NewTrendStore(conn *Conn) *TrendStore {
	return &TrendStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TrendStore = (*TrendStore)(nil)

// Upsert stores statistics for one run, replacing prior stats for the
// same (run, sku).
func (s *TrendStore) Upsert(ctx context.Context, runID string, stats map[string]*domain.TrendStatistics) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(stats) == 0 {
		return nil
	}
	for sku, st := range stats {
		if sku == "" || st == nil {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trend_statistics (
			run_id, sku, brand, pack_size, pack_volume_ml, pack_type,
			total_weeks, total_changes,
			mean_change_pct, std_change_pct, min_change_pct, max_change_pct,
			all_changes, latest_price, latest_week
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for sku, st := range stats {
		err = batch.Append(
			runID, sku, st.Brand, st.PackSize, st.PackVolumeML, st.PackType,
			uint32(st.TotalWeeks), uint32(st.TotalChanges),
			st.MeanChangePct, st.StdChangePct, st.MinChangePct, st.MaxChangePct,
			st.AllChanges, st.LatestPrice, st.LatestWeek.UTC(),
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

// GetByRunID retrieves all statistics of one run keyed by SKU.
func (s *TrendStore) GetByRunID(ctx context.Context, runID string) (map[string]*domain.TrendStatistics, error) {
	query := `
		SELECT sku, brand, pack_size, pack_volume_ml, pack_type,
			total_weeks, total_changes,
			mean_change_pct, std_change_pct, min_change_pct, max_change_pct,
			all_changes, latest_price, latest_week
		FROM trend_statistics FINAL
		WHERE run_id = ?
		ORDER BY sku ASC
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query trend statistics: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*domain.TrendStatistics)
	for rows.Next() {
		var (
			st                       domain.TrendStatistics
			totalWeeks, totalChanges uint32
		)
		err := rows.Scan(
			&st.SKU, &st.Brand, &st.PackSize, &st.PackVolumeML, &st.PackType,
			&totalWeeks, &totalChanges,
			&st.MeanChangePct, &st.StdChangePct, &st.MinChangePct, &st.MaxChangePct,
			&st.AllChanges, &st.LatestPrice, &st.LatestWeek,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trend statistics: %w", err)
		}
		st.TotalWeeks = int(totalWeeks)
		st.TotalChanges = int(totalChanges)
		result[st.SKU] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend statistics: %w", err)
	}

	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}
