package postgres

import (
	"context"
	"fmt"
	"time"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, run *domain.PipelineRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO pipeline_runs (
			run_id, kind, input_path,
			started_at, status, records_in
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		run.RunID, string(run.Kind), run.InputPath,
		run.StartedAt, string(run.Status), run.RecordsIn,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pipeline run: %w", err)
	}
	return nil
}

// Finish records the terminal state of a run.
func (s *RunStore) Finish(ctx context.Context, runID string, status domain.RunStatus, errMsg string, finishedAt time.Time, recordsOut int) error {
	query := `
		UPDATE pipeline_runs
		SET status = $2, error = $3, finished_at = $4, records_out = $5
		WHERE run_id = $1
	`

	tag, err := s.pool.Exec(ctx, query, runID, string(status), errMsg, finishedAt, recordsOut)
	if err != nil {
		return fmt.Errorf("finish pipeline run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const selectRunColumns = `
	run_id, kind, input_path,
	started_at, COALESCE(finished_at, 'epoch'::timestamptz), status,
	COALESCE(error, ''), records_in, COALESCE(records_out, 0)
`

// GetByID retrieves one run. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.PipelineRun, error) {
	query := `SELECT ` + selectRunColumns + ` FROM pipeline_runs WHERE run_id = $1`

	run, err := scanRun(s.pool.QueryRow(ctx, query, runID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get pipeline run by id: %w", err)
	}
	return run, nil
}

// GetRecent retrieves up to limit runs, newest first.
func (s *RunStore) GetRecent(ctx context.Context, limit int) ([]*domain.PipelineRun, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `SELECT ` + selectRunColumns + ` FROM pipeline_runs ORDER BY started_at DESC, run_id ASC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent pipeline runs: %w", err)
	}
	defer rows.Close()

	var result []*domain.PipelineRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pipeline run: %w", err)
		}
		result = append(result, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pipeline runs: %w", err)
	}
	return result, nil
}

func scanRun(row rowScanner) (*domain.PipelineRun, error) {
	var (
		run          domain.PipelineRun
		kind, status string
	)

	err := row.Scan(
		&run.RunID, &kind, &run.InputPath,
		&run.StartedAt, &run.FinishedAt, &status,
		&run.Error, &run.RecordsIn, &run.RecordsOut,
	)
	if err != nil {
		return nil, err
	}

	run.Kind = domain.RunKind(kind)
	run.Status = domain.RunStatus(status)
	return &run, nil
}
