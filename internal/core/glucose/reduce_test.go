package glucose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(ts time.Time, sgv int64) RawSample {
	millis := ts.UnixMilli()
	return RawSample{DateMillis: &millis, SGV: &sgv}
}

func TestReduceMinutes_AveragesWithinOneMinute(t *testing.T) {
	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	// Two readings in minute 0 of the day: mean of 100 and 120 is 110.
	samples := []RawSample{
		sample(day.Add(10*time.Second), 100),
		sample(day.Add(40*time.Second), 120),
	}

	averages := ReduceMinutes(samples, time.UTC)
	require.Len(t, averages, 1)
	assert.Equal(t, int64(110), averages[0])
}

func TestReduceMinutes_RoundsHalfAwayFromZero(t *testing.T) {
	day := time.Date(2024, 3, 6, 8, 15, 0, 0, time.UTC)

	samples := []RawSample{
		sample(day.Add(5*time.Second), 100),
		sample(day.Add(35*time.Second), 101),
	}

	// 100.5 rounds up to 101.
	averages := ReduceMinutes(samples, time.UTC)
	require.Len(t, averages, 1)
	assert.Equal(t, int64(101), averages[8*60+15])
}

func TestReduceMinutes_GroupsByMinuteOfDay(t *testing.T) {
	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	samples := []RawSample{
		sample(day.Add(30*time.Second), 100),
		sample(day.Add(7*time.Hour+12*time.Minute), 140),
		sample(day.Add(7*time.Hour+12*time.Minute+45*time.Second), 150),
		sample(day.Add(23*time.Hour+59*time.Minute), 90),
	}

	averages := ReduceMinutes(samples, time.UTC)
	require.Len(t, averages, 3)
	assert.Equal(t, int64(100), averages[0])
	assert.Equal(t, int64(145), averages[7*60+12])
	assert.Equal(t, int64(90), averages[MinutesPerDay-1])

	for minute := range averages {
		assert.GreaterOrEqual(t, minute, 0)
		assert.Less(t, minute, MinutesPerDay)
	}
}

func TestReduceMinutes_BucketsByLocalWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 14:30 UTC lands in the 09:30 bucket when reducing in New York time.
	ts := time.Date(2024, 3, 6, 14, 30, 0, 0, time.UTC)
	averages := ReduceMinutes([]RawSample{sample(ts, 120)}, loc)

	require.Len(t, averages, 1)
	assert.Equal(t, int64(120), averages[9*60+30])
}

func TestReduceMinutes_SkipsMalformedSamples(t *testing.T) {
	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	millis := day.UnixMilli()
	sgv := int64(115)

	samples := []RawSample{
		{DateMillis: nil, SGV: &sgv},    // missing timestamp
		{DateMillis: &millis, SGV: nil}, // missing value
		sample(day, 105),
	}

	averages := ReduceMinutes(samples, time.UTC)
	require.Len(t, averages, 1)
	assert.Equal(t, int64(105), averages[0])
}

func TestReduceMinutes_EmptyAndAllInvalidInput(t *testing.T) {
	assert.Empty(t, ReduceMinutes(nil, time.UTC))
	assert.Empty(t, ReduceMinutes([]RawSample{}, time.UTC))

	sgv := int64(100)
	assert.Empty(t, ReduceMinutes([]RawSample{{SGV: &sgv}}, time.UTC))
}

func TestReduceMinutes_OrderIndependent(t *testing.T) {
	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	forward := []RawSample{
		sample(day.Add(10*time.Second), 100),
		sample(day.Add(40*time.Second), 120),
		sample(day.Add(5*time.Minute), 130),
	}
	reversed := []RawSample{forward[2], forward[1], forward[0]}

	assert.Equal(t, ReduceMinutes(forward, time.UTC), ReduceMinutes(reversed, time.UTC))
}
