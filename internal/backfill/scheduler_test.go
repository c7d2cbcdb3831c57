package backfill

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glucolab/glucodash/internal/core/glucose"
)

func TestScheduler_StepsUntilCaughtUp(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{
		fetch: func(from, to time.Time, limit int) ([]glucose.RawSample, error) {
			return oneSampleAt(from.Add(time.Minute), 100), nil
		},
	}
	runner := newTestRunner(source, store, 3)
	scheduler := NewScheduler(5*time.Millisecond, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	// One day per tick: the 3-day backlog drains within a few intervals.
	assert.Eventually(t, func() bool {
		watermark, ok, _ := store.LatestDay(context.Background())
		return ok && watermark == (glucose.Date{Year: 2024, Month: time.March, Day: 19})
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestScheduler_StepErrorDoesNotStopTicking(t *testing.T) {
	store := newFakeStore()
	calls := 0
	source := &fakeSource{
		fetch: func(from, to time.Time, limit int) ([]glucose.RawSample, error) {
			calls++
			if calls == 1 {
				return nil, context.DeadlineExceeded
			}
			return oneSampleAt(from.Add(time.Minute), 100), nil
		},
	}
	runner := newTestRunner(source, store, 1)
	scheduler := NewScheduler(5*time.Millisecond, runner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- scheduler.Start(ctx) }()

	// First step fails; a later tick retries the same day and succeeds.
	assert.Eventually(t, func() bool {
		_, ok, _ := store.LatestDay(context.Background())
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
