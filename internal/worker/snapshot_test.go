package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/remote/memory"
	"fintrack/internal/state"
	"fintrack/internal/storage"
)

func newTestStore(t *testing.T) *state.Store {
	t.Helper()
	cache, err := storage.NewCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	store := state.New(context.Background(), cache, memory.New(), 25*time.Millisecond, log.New("worker-test", log.ParseLevel("error")))
	t.Cleanup(store.Close)
	return store
}

func TestRunOnceCapturesCurrentMonth(t *testing.T) {
	store := newTestStore(t)
	store.Update(context.Background(), func(s core.AppState) core.AppState {
		s.Assets = []core.Asset{{ID: "a1", Name: "savings", Value: 5000}}
		return s
	})

	w := NewSnapshot(store, "0 6 1 * *", log.New("worker-test", log.ParseLevel("error")))
	w.RunOnce()

	snaps := store.State().Snapshots
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}
	if want := core.MonthKey(time.Now()); snaps[0].Month != want {
		t.Errorf("snapshot month = %q, want %q", snaps[0].Month, want)
	}
	if snaps[0].NetWorth != 5000 {
		t.Errorf("snapshot net worth = %v, want 5000", snaps[0].NetWorth)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := NewSnapshot(newTestStore(t), "not a schedule", log.New("worker-test", log.ParseLevel("error")))
	if err := w.Start(); err == nil {
		t.Fatal("Start accepted an invalid schedule")
	}
}

func TestScheduledCapture(t *testing.T) {
	store := newTestStore(t)
	w := NewSnapshot(store, "@every 100ms", log.New("worker-test", log.ParseLevel("error")))
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(store.State().Snapshots) > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("no snapshot captured by the schedule")
}
