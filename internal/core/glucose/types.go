package glucose

import (
	"encoding/json"
	"fmt"
	"time"
)

// MinutesPerDay is the number of one-minute buckets in a calendar day.
// Minute-of-day values are always in [0, MinutesPerDay).
const MinutesPerDay = 24 * 60

// SentinelMinute / SentinelValue form the placeholder row written for a day
// that was fetched but produced no usable samples. Its only purpose is to
// advance the watermark past that day.
const (
	SentinelMinute = 0
	SentinelValue  = 0
)

// RawSample is one reading as returned by the remote entries API.
// Fields are pointers because the remote feed may omit either one; the
// reducer discards such samples instead of guessing.
type RawSample struct {
	// DateMillis is the reading timestamp in epoch milliseconds (UTC).
	DateMillis *int64 `json:"date"`
	// SGV is the sensor glucose value in mg/dL.
	SGV *int64 `json:"sgv"`
}

// Time returns the sample timestamp in the given location.
// Only valid when DateMillis is non-nil.
func (s RawSample) Time(loc *time.Location) time.Time {
	return time.UnixMilli(*s.DateMillis).In(loc)
}

// MinuteAverage is one stored aggregate: the mean glucose value for a single
// minute of a single day. The (Day, MinuteOfDay) pair is the primary key.
type MinuteAverage struct {
	Day         Date  `json:"day"`
	MinuteOfDay int   `json:"minute_of_day"`
	AvgSGV      int64 `json:"avg_sgv"`
}

// Date is a civil calendar date with no time component.
// The zero value is "no date" (see IsZero), which models an empty watermark.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as "2006-01-02".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalJSON encodes the date as a "2006-01-02" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "2006-01-02" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsZero reports whether d is the empty date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Midnight returns 00:00:00 of d in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d (n may be negative).
// Normalization is delegated to time.Date, so month and year roll over.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Next returns the day after d.
func (d Date) Next() Date { return d.AddDays(1) }

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return o.Before(d) }

// Window returns the half-open fetch interval [midnight(d), midnight(d+1))
// in loc. Computed via time.Date on both ends so DST transitions in loc
// produce 23h/25h windows instead of a fixed 24h offset.
func (d Date) Window(loc *time.Location) (start, end time.Time) {
	return d.Midnight(loc), d.Next().Midnight(loc)
}

// MinuteOfDayIn returns the minute-of-day bucket for t, evaluated on t's
// wall clock in loc. Range [0, MinutesPerDay).
func MinuteOfDayIn(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}
