package state

import (
	"sync"
	"time"
)

// debouncer is a single-slot delayed task. Scheduling cancels any pending
// run and restarts the quiet period, so a burst of triggers collapses into
// one execution of fn after the burst goes quiet. fn samples whatever it
// needs at fire time, never at schedule time.
type debouncer struct {
	quiet time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending bool
}

func newDebouncer(quiet time.Duration, fn func()) *debouncer {
	return &debouncer{quiet: quiet, fn: fn}
}

// Schedule arms the lane, replacing any pending run.
func (d *debouncer) Schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	d.pending = true
	seq := d.seq
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(seq) })
}

// fire runs fn unless the slot was rescheduled or cancelled after this
// timer was armed. The sequence check covers the window where Stop loses
// the race with an already-fired timer.
func (d *debouncer) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Cancel drops any pending run without executing it.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
}

// pendingNow reports whether a run is armed.
func (d *debouncer) pendingNow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Flush runs a pending task immediately instead of waiting out the quiet
// period. No-op when nothing is pending.
func (d *debouncer) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = false
	d.mu.Unlock()
	d.fn()
}
