package constants

const (
	// Analysis windows, in days, counted back from and including today.
	OracleWindowDays = 28
	OracleLagDays    = 7
	OracleTrendDays  = 7

	// Weekday pattern
	WeekdayGapThreshold = 0.20

	// Lagged sleep -> next-day completion
	SleepLowMax           = 4
	SleepHighMin          = 7
	SleepMinPairs         = 5
	SleepMinBucketSamples = 2
	SleepImpactThreshold  = 0.15

	// Sleep/mood anomaly
	MoodSleepLowMax      = 3
	MoodSleepHighMin     = 7
	MoodMinBucketSamples = 3
	MoodOversleepDelta   = 1.0

	// Week-over-week trend
	TrendThreshold = 0.20

	// FloatTolerance absorbs binary rounding so that a difference that is
	// exactly at a threshold never counts as exceeding it.
	FloatTolerance = 1e-9
)
