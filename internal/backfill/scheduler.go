package backfill

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler invokes single-step backfill on a fixed interval.
// It is stateless between ticks: each tick independently reads the watermark
// and processes at most one day, so step errors are simply retried on the
// next tick and never escalate.
type Scheduler struct {
	interval time.Duration
	runner   *Runner
}

// NewScheduler creates a periodic single-step scheduler.
func NewScheduler(interval time.Duration, runner *Runner) *Scheduler {
	return &Scheduler{
		interval: interval,
		runner:   runner,
	}
}

// Start begins periodic stepping and runs until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting backfill scheduler", "interval", s.interval)

	// Immediate first step so a fresh deployment does not wait a full
	// interval before touching overdue history.
	s.step(ctx)

	for {
		select {
		case <-ticker.C:
			s.step(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

func (s *Scheduler) step(ctx context.Context) {
	processed, err := s.runner.Step(ctx)
	if err != nil {
		slog.Error("[Scheduler] Backfill step failed",
			"error", err,
			"note", "will retry on next tick",
		)
		return
	}
	if processed {
		slog.Info("[Scheduler] Backfill step advanced one day")
	}
}
