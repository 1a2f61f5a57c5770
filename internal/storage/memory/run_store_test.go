package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pricelab/internal/domain"
	"pricelab/internal/storage"
)

func run(id string, started time.Time) *domain.PipelineRun {
	return &domain.PipelineRun{
		RunID:     id,
		Kind:      domain.RunKindCategorize,
		InputPath: "data/price_changes.csv",
		StartedAt: started,
		Status:    domain.RunStatusRunning,
		RecordsIn: 10,
	}
}

func TestRunStore_InsertAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	started := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	if err := store.Insert(ctx, run("run-1", started)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.RunStatusRunning {
		t.Errorf("Status mismatch: got %s", got.Status)
	}
	if got.RecordsIn != 10 {
		t.Errorf("RecordsIn mismatch: got %d", got.RecordsIn)
	}
}

func TestRunStore_DuplicateKey(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	started := time.Now().UTC()

	_ = store.Insert(ctx, run("run-1", started))
	err := store.Insert(ctx, run("run-1", started))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestRunStore_Finish(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	started := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
	finished := started.Add(2 * time.Second)

	_ = store.Insert(ctx, run("run-1", started))

	if err := store.Finish(ctx, "run-1", domain.RunStatusSucceeded, "", finished, 42); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "run-1")
	if got.Status != domain.RunStatusSucceeded {
		t.Errorf("Status mismatch: got %s", got.Status)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt mismatch: got %v", got.FinishedAt)
	}
	if got.RecordsOut != 42 {
		t.Errorf("RecordsOut mismatch: got %d", got.RecordsOut)
	}
}

func TestRunStore_FinishMissingRun(t *testing.T) {
	store := NewRunStore()

	err := store.Finish(context.Background(), "missing", domain.RunStatusFailed, "boom", time.Now(), 0)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunStore_GetRecentNewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)

	_ = store.Insert(ctx, run("run-1", base))
	_ = store.Insert(ctx, run("run-2", base.Add(time.Hour)))
	_ = store.Insert(ctx, run("run-3", base.Add(2*time.Hour)))

	got, err := store.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].RunID != "run-3" || got[1].RunID != "run-2" {
		t.Errorf("order mismatch: %s, %s", got[0].RunID, got[1].RunID)
	}
}
