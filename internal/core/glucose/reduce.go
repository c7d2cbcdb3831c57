package glucose

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReduceMinutes reduces one day's raw samples to per-minute arithmetic means.
//
// Samples missing a timestamp or a value are skipped. Each remaining sample
// is bucketed by its wall-clock minute-of-day in loc, and every bucket's
// mean is rounded half-away-from-zero to an integer mg/dL.
//
// The result has one entry per distinct minute-of-day seen among valid
// samples; empty or all-invalid input yields an empty map. Pure and
// order-independent: callers may pass samples in any order.
func ReduceMinutes(samples []RawSample, loc *time.Location) map[int]int64 {
	type bucket struct {
		sum   decimal.Decimal
		count int64
	}
	buckets := make(map[int]*bucket)

	for _, s := range samples {
		if s.DateMillis == nil || s.SGV == nil {
			continue
		}
		minute := MinuteOfDayIn(s.Time(loc), loc)
		b, ok := buckets[minute]
		if !ok {
			b = &bucket{sum: decimal.Zero}
			buckets[minute] = b
		}
		b.sum = b.sum.Add(decimal.NewFromInt(*s.SGV))
		b.count++
	}

	averages := make(map[int]int64, len(buckets))
	for minute, b := range buckets {
		mean := b.sum.Div(decimal.NewFromInt(b.count)).Round(0)
		averages[minute] = mean.IntPart()
	}
	return averages
}
