package glucose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-06")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 6}, d)
	assert.Equal(t, "2024-03-06", d.String())

	_, err = ParseDate("06/03/2024")
	assert.Error(t, err)
}

func TestDate_AddDaysRollsOver(t *testing.T) {
	d := Date{Year: 2024, Month: time.February, Day: 28}

	// 2024 is a leap year
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29}, d.Next())
	assert.Equal(t, Date{Year: 2024, Month: time.March, Day: 1}, d.AddDays(2))

	newYear := Date{Year: 2023, Month: time.December, Day: 31}
	assert.Equal(t, Date{Year: 2024, Month: time.January, Day: 1}, newYear.Next())

	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 14}, d.AddDays(-14))
}

func TestDate_Ordering(t *testing.T) {
	a := Date{Year: 2024, Month: time.March, Day: 19}
	b := Date{Year: 2024, Month: time.March, Day: 20}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
	assert.True(t, Date{Year: 2023, Month: time.December, Day: 31}.Before(a))
}

func TestDate_IsZero(t *testing.T) {
	assert.True(t, Date{}.IsZero())
	assert.False(t, Date{Year: 2024, Month: time.March, Day: 1}.IsZero())
}

func TestDate_WindowUTC(t *testing.T) {
	d := Date{Year: 2024, Month: time.March, Day: 6}
	start, end := d.Window(time.UTC)

	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), end)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestDate_WindowSpansDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// US spring-forward 2024: March 10 is a 23-hour day.
	d := Date{Year: 2024, Month: time.March, Day: 10}
	start, end := d.Window(loc)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestMinuteOfDayIn(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-06 14:30 UTC is 09:30 in New York (UTC-5).
	ts := time.Date(2024, 3, 6, 14, 30, 42, 0, time.UTC)
	assert.Equal(t, 14*60+30, MinuteOfDayIn(ts, time.UTC))
	assert.Equal(t, 9*60+30, MinuteOfDayIn(ts, loc))

	midnight := time.Date(2024, 3, 6, 0, 0, 59, 0, time.UTC)
	assert.Equal(t, 0, MinuteOfDayIn(midnight, time.UTC))

	lastMinute := time.Date(2024, 3, 6, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, MinutesPerDay-1, MinuteOfDayIn(lastMinute, time.UTC))
}
