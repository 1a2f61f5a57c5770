package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

// ObservationStore is an in-memory implementation of storage.ObservationStore.
type ObservationStore struct {
	mu   sync.RWMutex
	data map[string]map[time.Time]domain.PriceObservation // sku -> week -> observation
}

// NewObservationStore creates a new in-memory observation store.
func NewObservationStore() *ObservationStore {
	return &ObservationStore{
		data: make(map[string]map[time.Time]domain.PriceObservation),
	}
}

// InsertBulk adds observations. Duplicate (sku, week) pairs are
// last-write-wins.
func (s *ObservationStore) InsertBulk(_ context.Context, obs []domain.PriceObservation) error {
	for _, o := range obs {
		if o.SKU == "" || o.Week.IsZero() {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range obs {
		weeks, ok := s.data[o.SKU]
		if !ok {
			weeks = make(map[time.Time]domain.PriceObservation)
			s.data[o.SKU] = weeks
		}
		weeks[o.Week.UTC()] = o
	}
	return nil
}

// GetBySku retrieves all observations for one SKU, week ascending.
func (s *ObservationStore) GetBySku(_ context.Context, sku string) ([]domain.PriceObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weeks, ok := s.data[sku]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return sortedObservations(weeks), nil
}

// GetAll retrieves every observation, weeks ascending within each SKU.
func (s *ObservationStore) GetAll(_ context.Context) ([]domain.PriceObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skus := make([]string, 0, len(s.data))
	for sku := range s.data {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var result []domain.PriceObservation
	for _, sku := range skus {
		result = append(result, sortedObservations(s.data[sku])...)
	}
	return result, nil
}

// GetByWeekRange retrieves observations within [start, end] inclusive.
func (s *ObservationStore) GetByWeekRange(_ context.Context, start, end time.Time) ([]domain.PriceObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	skus := make([]string, 0, len(s.data))
	for sku := range s.data {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var result []domain.PriceObservation
	for _, sku := range skus {
		for _, o := range sortedObservations(s.data[sku]) {
			if o.Week.Before(start) || o.Week.After(end) {
				continue
			}
			result = append(result, o)
		}
	}
	return result, nil
}

func sortedObservations(weeks map[time.Time]domain.PriceObservation) []domain.PriceObservation {
	out := make([]domain.PriceObservation, 0, len(weeks))
	for _, o := range weeks {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week.Before(out[j].Week) })
	return out
}
