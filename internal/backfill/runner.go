// Package backfill drives the fetch→reduce→store pipeline that keeps the
// minute-average history current. The pure day-selection rules live in
// internal/core/backfill; this package owns the I/O orchestration.
package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	corebackfill "github.com/glucolab/glucodash/internal/core/backfill"
	"github.com/glucolab/glucodash/internal/core/glucose"
	"github.com/glucolab/glucodash/internal/core/storage"
)

const (
	defaultPageSize = 300

	// maxCatchUpDays bounds one catch-up run. A store whose watermark never
	// advances (or a clock far in the future) must not loop forever.
	maxCatchUpDays = 1000
)

// Options controls how far back the first run reaches and how days are
// fetched and bucketed.
type Options struct {
	InitialBackfillDays int
	PageSize            int
	Location            *time.Location
}

// DefaultOptions returns the stock configuration: 14 days of initial
// backfill, 300 samples per day fetch, UTC bucketing.
func DefaultOptions() Options {
	return Options{
		InitialBackfillDays: corebackfill.DefaultInitialBackfillDays,
		PageSize:            defaultPageSize,
		Location:            time.UTC,
	}
}

func (o Options) normalized() Options {
	n := o
	if n.InitialBackfillDays <= 0 {
		n.InitialBackfillDays = corebackfill.DefaultInitialBackfillDays
	}
	if n.PageSize <= 0 {
		n.PageSize = defaultPageSize
	}
	if n.Location == nil {
		n.Location = time.UTC
	}
	return n
}

// Runner executes backfill work against an injected source and store.
// Processing is strictly sequential: each day's eligibility depends on the
// watermark left by the previous one.
type Runner struct {
	source storage.SampleSource
	store  storage.AverageStore
	opts   Options
	nowFn  func() time.Time
}

// NewRunner creates a Runner with the given collaborators.
func NewRunner(source storage.SampleSource, store storage.AverageStore, opts Options) *Runner {
	return &Runner{
		source: source,
		store:  store,
		opts:   opts.normalized(),
		nowFn:  time.Now,
	}
}

func (r *Runner) today() glucose.Date {
	return glucose.DateOf(r.nowFn().In(r.opts.Location))
}

// nextDue reads the watermark and computes the next day requiring work.
func (r *Runner) nextDue(ctx context.Context) (glucose.Date, bool, error) {
	watermark, hasWatermark, err := r.store.LatestDay(ctx)
	if err != nil {
		return glucose.Date{}, false, fmt.Errorf("read watermark: %w", err)
	}
	if !hasWatermark {
		watermark = glucose.Date{}
	}
	day, due := corebackfill.NextDueDay(r.today(), watermark, r.opts.InitialBackfillDays)
	return day, due, nil
}

// ProcessDay fetches, reduces and stores one calendar day.
//
// A fetch failure propagates without writing anything, so the watermark is
// untouched and the day is retried whole on the next invocation. A day that
// yields no usable samples is marked with the empty-day sentinel so the
// watermark still advances past it.
func (r *Runner) ProcessDay(ctx context.Context, day glucose.Date) error {
	start, end := day.Window(r.opts.Location)

	samples, err := r.source.FetchRange(ctx, start, end, r.opts.PageSize)
	if err != nil {
		return fmt.Errorf("fetch samples for %s: %w", day, err)
	}

	averages := glucose.ReduceMinutes(samples, r.opts.Location)
	if len(averages) == 0 {
		if err := r.store.MarkDayEmpty(ctx, day); err != nil {
			return fmt.Errorf("mark %s empty: %w", day, err)
		}
		slog.Info("[Backfill] Day had no usable samples, marked as processed",
			"day", day.String(),
			"raw_samples", len(samples),
		)
		return nil
	}

	written, err := r.store.UpsertMinuteAverages(ctx, day, averages)
	if err != nil {
		return fmt.Errorf("store averages for %s: %w", day, err)
	}

	slog.Info("[Backfill] Day aggregated",
		"day", day.String(),
		"raw_samples", len(samples),
		"minutes_written", written,
	)
	return nil
}

// CatchUp processes every overdue day in order until history is current up
// to yesterday. The first failure stops the run with the watermark at its
// last successfully advanced value, so the next invocation resumes from the
// same day. Returns the number of days processed.
func (r *Runner) CatchUp(ctx context.Context) (int, error) {
	runID := uuid.NewString()
	log := slog.With("run_id", runID)

	log.Info("[Backfill] Starting catch-up run",
		"initial_backfill_days", r.opts.InitialBackfillDays,
		"timezone", r.opts.Location.String(),
	)

	processed := 0
	for processed < maxCatchUpDays {
		if err := ctx.Err(); err != nil {
			return processed, fmt.Errorf("catch-up interrupted: %w", err)
		}

		day, due, err := r.nextDue(ctx)
		if err != nil {
			return processed, err
		}
		if !due {
			log.Info("[Backfill] History is current",
				"last_full_day", r.today().AddDays(-1).String(),
				"days_processed", processed,
			)
			return processed, nil
		}

		log.Info("[Backfill] Processing day", "day", day.String())
		if err := r.ProcessDay(ctx, day); err != nil {
			return processed, err
		}
		processed++
	}

	log.Warn("[Backfill] Catch-up stopped at safety limit",
		"max_days", maxCatchUpDays,
		"note", "will resume on next run",
	)
	return processed, nil
}

// Step processes at most one overdue day. Returns false when history is
// already current. Intended for repeated invocation on a fixed cadence;
// failures end the invocation and the day is retried on the next one.
func (r *Runner) Step(ctx context.Context) (bool, error) {
	day, due, err := r.nextDue(ctx)
	if err != nil {
		return false, err
	}
	if !due {
		slog.Debug("[Backfill] Nothing due", "last_full_day", r.today().AddDays(-1).String())
		return false, nil
	}

	if err := r.ProcessDay(ctx, day); err != nil {
		return false, err
	}
	return true, nil
}
