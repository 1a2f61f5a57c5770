package memory

import (
	"context"
	"sync"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

// TrendStore is an in-memory implementation of storage.TrendStore.
type TrendStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*domain.TrendStatistics // run_id -> sku -> stats
}

// NewTrendStore creates a new in-memory trend store.
func NewTrendStore() *TrendStore {
	return &TrendStore{
		data: make(map[string]map[string]*domain.TrendStatistics),
	}
}

// Upsert stores statistics for one run, replacing prior stats for the
// same (run, sku).
func (s *TrendStore) Upsert(_ context.Context, runID string, stats map[string]*domain.TrendStatistics) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	for sku, st := range stats {
		if sku == "" || st == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.data[runID]
	if !ok {
		run = make(map[string]*domain.TrendStatistics, len(stats))
		s.data[runID] = run
	}
	for sku, st := range stats {
		run[sku] = copyStats(st)
	}
	return nil
}

// GetByRunID retrieves all statistics of one run keyed by SKU.
func (s *TrendStore) GetByRunID(_ context.Context, runID string) (map[string]*domain.TrendStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok || len(run) == 0 {
		return nil, storage.ErrNotFound
	}

	result := make(map[string]*domain.TrendStatistics, len(run))
	for sku, st := range run {
		result[sku] = copyStats(st)
	}
	return result, nil
}

func copyStats(st *domain.TrendStatistics) *domain.TrendStatistics {
	stCopy := *st
	if st.AllChanges != nil {
		stCopy.AllChanges = append([]float64(nil), st.AllChanges...)
	}
	return &stCopy
}
