// Package backfill holds the pure scheduling math for the history backfill.
// It is deliberately free of I/O so the day-selection rules can be tested
// exhaustively without a store or a clock.
package backfill

import "github.com/glucolab/glucodash/internal/core/glucose"

// DefaultInitialBackfillDays is how far back the first run reaches when the
// store is empty.
const DefaultInitialBackfillDays = 14

// NextDueDay computes the next day that must be aggregated.
//
// today itself is never eligible — only complete days are aggregated, so the
// last completable day is today-1. With no watermark (empty store) the
// starting point is today minus initialBackfillDays; otherwise it is the day
// after the watermark. The second return value is false when processing has
// caught up and nothing is due.
func NextDueDay(today, watermark glucose.Date, initialBackfillDays int) (glucose.Date, bool) {
	if initialBackfillDays <= 0 {
		initialBackfillDays = DefaultInitialBackfillDays
	}

	lastCompletable := today.AddDays(-1)

	var next glucose.Date
	if watermark.IsZero() {
		next = today.AddDays(-initialBackfillDays)
	} else {
		next = watermark.Next()
	}

	if next.After(lastCompletable) {
		return glucose.Date{}, false
	}
	return next, true
}
