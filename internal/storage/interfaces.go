package storage

import (
	"context"
	"time"

	"pricelab/internal/domain"
)

// PriceChangeStore provides access to classified price-change records.
type PriceChangeStore interface {
	// Insert adds one classified record under its deterministic ID.
	// Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, recordID, runID string, rec *domain.ClassifiedRecord) error

	// InsertBulk adds multiple records. Fails the entire batch on any
	// duplicate ID.
	InsertBulk(ctx context.Context, runID string, recs map[string]*domain.ClassifiedRecord) error

	// GetByID retrieves one record. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, recordID string) (*domain.ClassifiedRecord, error)

	// GetByRunID retrieves all records of one run, in insertion order.
	GetByRunID(ctx context.Context, runID string) ([]*domain.ClassifiedRecord, error)

	// GetByCategory retrieves all records of one category across runs.
	GetByCategory(ctx context.Context, category domain.ChangeCategory) ([]*domain.ClassifiedRecord, error)
}

// ObservationStore provides access to the weekly price-history rows.
type ObservationStore interface {
	// InsertBulk adds observations. Duplicate (sku, week) pairs are
	// last-write-wins, matching the analyzer's de-duplication.
	InsertBulk(ctx context.Context, obs []domain.PriceObservation) error

	// GetBySku retrieves all observations for one SKU, week ascending.
	// Returns ErrNotFound when the SKU has no observations.
	GetBySku(ctx context.Context, sku string) ([]domain.PriceObservation, error)

	// GetAll retrieves every observation, grouped by SKU in no
	// particular SKU order, weeks ascending within each SKU.
	GetAll(ctx context.Context) ([]domain.PriceObservation, error)

	// GetByWeekRange retrieves observations within [start, end] inclusive.
	GetByWeekRange(ctx context.Context, start, end time.Time) ([]domain.PriceObservation, error)
}

// TrendStore provides access to computed per-SKU trend statistics.
type TrendStore interface {
	// Upsert stores statistics for one run, replacing any prior stats
	// for the same (run, sku).
	Upsert(ctx context.Context, runID string, stats map[string]*domain.TrendStatistics) error

	// GetByRunID retrieves all statistics of one run keyed by SKU.
	// Returns ErrNotFound when the run stored none.
	GetByRunID(ctx context.Context, runID string) (map[string]*domain.TrendStatistics, error)
}

// RunStore provides access to pipeline-run audit records.
type RunStore interface {
	// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.PipelineRun) error

	// Finish records the terminal state of a run. Returns ErrNotFound
	// if the run does not exist.
	Finish(ctx context.Context, runID string, status domain.RunStatus, errMsg string, finishedAt time.Time, recordsOut int) error

	// GetByID retrieves one run. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.PipelineRun, error)

	// GetRecent retrieves up to limit runs, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.PipelineRun, error)
}
