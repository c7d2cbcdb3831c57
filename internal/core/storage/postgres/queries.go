package postgres

// SQL for the minute_averages table. All writes rely on native conflict
// resolution so overlapping runs cannot corrupt data.

const (
	// queryLatestDay derives the watermark from the data itself.
	queryLatestDay = `SELECT MAX(day) FROM minute_averages`

	// queryUpsertMinuteAverage replaces the value at one (day, minute_of_day)
	// key. Reprocessing a day touches exactly the minute keys being written.
	queryUpsertMinuteAverage = `
		INSERT INTO minute_averages (day, minute_of_day, avg_sgv, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day, minute_of_day)
		DO UPDATE SET
			avg_sgv    = EXCLUDED.avg_sgv,
			updated_at = EXCLUDED.updated_at
	`

	// queryMarkDayEmpty inserts the sentinel row only when the day has no
	// rows at all. The NOT EXISTS guard keeps real data intact and the
	// ON CONFLICT clause absorbs races between concurrent markers.
	queryMarkDayEmpty = `
		INSERT INTO minute_averages (day, minute_of_day, avg_sgv, updated_at)
		SELECT $1::date, 0, 0, $2::timestamptz
		WHERE NOT EXISTS (
			SELECT 1 FROM minute_averages WHERE day = $1::date
		)
		ON CONFLICT (day, minute_of_day) DO NOTHING
	`

	// queryDayAverages serves the dashboard's per-day read path.
	queryDayAverages = `
		SELECT day, minute_of_day, avg_sgv
		FROM minute_averages
		WHERE day = $1
		ORDER BY minute_of_day ASC
	`
)
