// Package dashboard serves the display layer: a full-screen current-value
// page, a latest-reading proxy API and a per-day minute-average query API.
// It holds no scheduling state; history is read straight from the store.
package dashboard

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/glucolab/glucodash/internal/core/glucose"
	"github.com/glucolab/glucodash/internal/nightscout"
)

// LatestSource provides the most recent reading from the remote server.
// Satisfied by *nightscout.Client.
type LatestSource interface {
	Latest(ctx context.Context) (nightscout.Entry, error)
}

// DayReader serves stored minute averages for one day.
// Satisfied by the postgres adapter.
type DayReader interface {
	QueryDay(ctx context.Context, day glucose.Date) ([]glucose.MinuteAverage, error)
}

// Service implements the dashboard read paths.
type Service struct {
	source LatestSource
	store  DayReader

	// latest collapses concurrent /api/glucose polls into one upstream
	// call; every open browser tab polls on the same cadence.
	latest singleflight.Group
}

// NewService creates the dashboard service.
func NewService(source LatestSource, store DayReader) *Service {
	return &Service{
		source: source,
		store:  store,
	}
}

// FetchLatest returns the most recent reading, deduplicating concurrent
// callers through singleflight.
func (s *Service) FetchLatest(ctx context.Context) (nightscout.Entry, error) {
	v, err, _ := s.latest.Do("latest", func() (interface{}, error) {
		return s.source.Latest(ctx)
	})
	if err != nil {
		return nightscout.Entry{}, err
	}
	return v.(nightscout.Entry), nil
}
