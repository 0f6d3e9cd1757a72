package ledger

import (
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/utils"
)

// Streak counts consecutive due days of habit with a completed log, ending
// today or, while today is still open, ending at the last due day before
// it. Days the habit is not scheduled neither count nor break the run; a
// miss log or a due day without a log ends it. A completed log on a day
// that was not due still counts.
func Streak(habit models.Habit, logs []models.HabitLog, today string) int {
	if len(logs) == 0 {
		return 0
	}
	day, err := utils.ParseDate(today)
	if err != nil {
		return 0
	}

	completed := make(map[string]bool, len(logs))
	earliest := logs[0].Date
	for _, l := range logs {
		completed[l.Date] = l.Completed
		if l.Date < earliest {
			earliest = l.Date
		}
	}

	streak := 0
	if done, ok := completed[today]; ok {
		if !done {
			return 0
		}
		streak++
	}

	for {
		day = day.AddDate(0, 0, -1)
		date := utils.FormatDate(day)
		if date < earliest {
			return streak
		}
		done, ok := completed[date]
		switch {
		case ok && done:
			streak++
		case ok:
			return streak
		case utils.IsScheduled(habit, day):
			return streak
		}
	}
}
