package constants

const (
	// DefaultHabitXP is the reward for a habit (and its generated tasks)
	// when none is configured.
	DefaultHabitXP = 8

	// DefaultTaskXP is the reward for a manually created task.
	DefaultTaskXP = 10

	// CheckInXP is the fixed reward for the once-per-day check-in.
	CheckInXP = 15

	// UncompletePenaltyMultiplier scales the habit reward into the penalty
	// applied when a completed habit is unchecked.
	UncompletePenaltyMultiplier = 2

	// OverdueRewardFactor is applied to a task's reward when it is
	// completed after its due date.
	OverdueRewardFactor = 0.5

	// DefaultTimesPerWeek is used when a timesPerWeek habit has no count.
	DefaultTimesPerWeek = 3

	// MaxScore is the upper bound of every check-in score.
	MaxScore = 10

	// BatchChunkSize is the number of records a bulk operation finishes
	// before starting the next group.
	BatchChunkSize = 50

	// Backfill defaults
	DefaultBackfillWorkers  = 8
	DefaultBackfillPageSize = 100
)
