package state

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var runs atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { runs.Add(1) })

	for range 5 {
		d.Schedule()
		time.Sleep(2 * time.Millisecond)
	}

	waitFor(t, func() bool { return runs.Load() == 1 }, "debounced task never ran")
	time.Sleep(60 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("task ran %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var runs atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { runs.Add(1) })

	d.Schedule()
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Fatalf("cancelled task ran %d times", got)
	}
	if d.pendingNow() {
		t.Error("lane still pending after Cancel")
	}
}

func TestDebouncerFlush(t *testing.T) {
	var runs atomic.Int32
	d := newDebouncer(time.Hour, func() { runs.Add(1) })

	d.Flush() // nothing pending
	if got := runs.Load(); got != 0 {
		t.Fatalf("Flush with nothing pending ran the task %d times", got)
	}

	d.Schedule()
	d.Flush()
	if got := runs.Load(); got != 1 {
		t.Fatalf("Flush ran the task %d times, want 1", got)
	}
	if d.pendingNow() {
		t.Error("lane still pending after Flush")
	}
}

func TestDebouncerRescheduleAfterFire(t *testing.T) {
	var runs atomic.Int32
	d := newDebouncer(10*time.Millisecond, func() { runs.Add(1) })

	d.Schedule()
	waitFor(t, func() bool { return runs.Load() == 1 }, "first run")
	d.Schedule()
	waitFor(t, func() bool { return runs.Load() == 2 }, "second run")
}
