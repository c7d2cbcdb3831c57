package storage

import (
	"context"
	"time"

	"github.com/glucolab/glucodash/internal/core/glucose"
)

// AverageStore defines the durable home of per-minute glucose averages.
// The (day, minute_of_day) pair is the primary key; the watermark — the most
// recent fully aggregated day — is derived from the data itself via
// LatestDay, there is no separate progress record.
type AverageStore interface {
	// LatestDay returns the maximum day across all stored rows.
	// ok is false when the store holds no rows. Must reflect all prior
	// writes made through this store within the same process.
	LatestDay(ctx context.Context) (day glucose.Date, ok bool, err error)

	// UpsertMinuteAverages writes one day's minute averages, replacing any
	// existing values at the same (day, minute_of_day) keys. Minute keys not
	// present in averages are left untouched. Returns the number of rows
	// written.
	UpsertMinuteAverages(ctx context.Context, day glucose.Date, averages map[int]int64) (int, error)

	// MarkDayEmpty records the sentinel placeholder row for a day that
	// yielded no usable samples, but only if the day has no rows at all —
	// real data written by a prior or concurrent run is never clobbered.
	MarkDayEmpty(ctx context.Context, day glucose.Date) error

	// QueryDay returns the stored averages for one day ordered by
	// minute_of_day ascending. An unprocessed day yields an empty slice.
	QueryDay(ctx context.Context, day glucose.Date) ([]glucose.MinuteAverage, error)
}

// SampleSource abstracts the remote telemetry feed. Implementations return
// raw samples whose timestamps fall in [from, to), capped at limit, or a
// transient error (network failure, timeout, non-success status).
type SampleSource interface {
	FetchRange(ctx context.Context, from, to time.Time, limit int) ([]glucose.RawSample, error)
}
