package memory

import (
	"context"
	"sort"
	"sync"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

type classifiedEntry struct {
	recordID string
	runID    string
	seq      int
	rec      *domain.ClassifiedRecord
}

// PriceChangeStore is an in-memory implementation of storage.PriceChangeStore.
type PriceChangeStore struct {
	mu   sync.RWMutex
	data map[string]*classifiedEntry // keyed by record_id
	next int
}

// NewPriceChangeStore creates a new in-memory price-change store.
func NewPriceChangeStore() *PriceChangeStore {
	return &PriceChangeStore{
		data: make(map[string]*classifiedEntry),
	}
}

// Insert adds one classified record. Returns ErrDuplicateKey if record_id exists.
func (s *PriceChangeStore) Insert(_ context.Context, recordID, runID string, rec *domain.ClassifiedRecord) error {
	if recordID == "" || rec == nil || rec.Record == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(recordID, runID, rec)
}

// InsertBulk adds multiple records. Fails the entire batch on any duplicate.
func (s *PriceChangeStore) InsertBulk(_ context.Context, runID string, recs map[string]*domain.ClassifiedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for recordID, rec := range recs {
		if recordID == "" || rec == nil || rec.Record == nil {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[recordID]; exists {
			return storage.ErrDuplicateKey
		}
	}

	// Deterministic insertion order for map input.
	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := s.insertLocked(id, runID, recs[id]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PriceChangeStore) insertLocked(recordID, runID string, rec *domain.ClassifiedRecord) error {
	if _, exists := s.data[recordID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[recordID] = &classifiedEntry{
		recordID: recordID,
		runID:    runID,
		seq:      s.next,
		rec:      copyClassified(rec),
	}
	s.next++
	return nil
}

// GetByID retrieves one record. Returns ErrNotFound if not exists.
func (s *PriceChangeStore) GetByID(_ context.Context, recordID string) (*domain.ClassifiedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[recordID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyClassified(e.rec), nil
}

// GetByRunID retrieves all records of one run, in insertion order.
func (s *PriceChangeStore) GetByRunID(_ context.Context, runID string) ([]*domain.ClassifiedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*classifiedEntry
	for _, e := range s.data {
		if e.runID == runID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	result := make([]*domain.ClassifiedRecord, 0, len(entries))
	for _, e := range entries {
		result = append(result, copyClassified(e.rec))
	}
	return result, nil
}

// GetByCategory retrieves all records of one category across runs.
func (s *PriceChangeStore) GetByCategory(_ context.Context, category domain.ChangeCategory) ([]*domain.ClassifiedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []*classifiedEntry
	for _, e := range s.data {
		if e.rec.Category == category {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	result := make([]*domain.ClassifiedRecord, 0, len(entries))
	for _, e := range entries {
		result = append(result, copyClassified(e.rec))
	}
	return result, nil
}

// copyClassified deep-copies a classified record so callers cannot
// mutate stored state.
func copyClassified(rec *domain.ClassifiedRecord) *domain.ClassifiedRecord {
	recCopy := *rec
	if rec.Record != nil {
		inner := *rec.Record
		recCopy.Record = &inner
	}
	return &recCopy
}
