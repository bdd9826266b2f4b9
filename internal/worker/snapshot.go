// Package worker runs the scheduled jobs: periodic net-worth snapshot
// capture on a cron schedule.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/log"
	"fintrack/internal/state"
)

const captureTimeout = 30 * time.Second

// Snapshot captures a monthly net-worth snapshot on a cron schedule, so a
// user who never presses the capture button still gets one row per month.
type Snapshot struct {
	store    *state.Store
	schedule string
	logger   *log.Logger
	cron     *cron.Cron
}

func NewSnapshot(store *state.Store, schedule string, logger *log.Logger) *Snapshot {
	return &Snapshot{store: store, schedule: schedule, logger: logger}
}

// Start validates the schedule and begins running. The first capture happens
// at the next schedule boundary, not immediately.
func (w *Snapshot) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, w.RunOnce); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", w.schedule, err)
	}
	w.cron = c
	c.Start()
	w.logger.Info("snapshot worker started", "schedule", w.schedule)
	return nil
}

// Stop halts the scheduler and waits for a running capture to finish.
func (w *Snapshot) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.logger.Info("snapshot worker stopped")
}

// RunOnce captures a snapshot for the current month immediately.
func (w *Snapshot) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()
	snap := w.store.CaptureSnapshot(ctx, time.Now())
	w.logger.InfoContext(ctx, "snapshot captured",
		"month", snap.Month,
		"currency", snap.Currency,
		"net_worth", snap.NetWorth,
	)
}
