package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.PipelineRun // keyed by run_id
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		data: make(map[string]*domain.PipelineRun),
	}
}

// Insert adds a new run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, run *domain.PipelineRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[run.RunID]; exists {
		return storage.ErrDuplicateKey
	}

	runCopy := *run
	s.data[run.RunID] = &runCopy
	return nil
}

// Finish records the terminal state of a run.
func (s *RunStore) Finish(_ context.Context, runID string, status domain.RunStatus, errMsg string, finishedAt time.Time, recordsOut int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, exists := s.data[runID]
	if !exists {
		return storage.ErrNotFound
	}

	run.Status = status
	run.Error = errMsg
	run.FinishedAt = finishedAt
	run.RecordsOut = recordsOut
	return nil
}

// GetByID retrieves one run. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(_ context.Context, runID string) (*domain.PipelineRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	runCopy := *run
	return &runCopy, nil
}

// GetRecent retrieves up to limit runs, newest first.
func (s *RunStore) GetRecent(_ context.Context, limit int) ([]*domain.PipelineRun, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PipelineRun, 0, len(s.data))
	for _, run := range s.data {
		runCopy := *run
		result = append(result, &runCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartedAt.Equal(result[j].StartedAt) {
			return result[i].StartedAt.After(result[j].StartedAt)
		}
		return result[i].RunID < result[j].RunID
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
