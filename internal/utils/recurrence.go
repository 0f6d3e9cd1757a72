package utils

import (
	"time"

	"github.com/julianstephens/questlog/internal/constants"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
)

// IsScheduled determines if a habit is due on the given date based on its
// frequency. Both daily jobs call it, so they always agree on due days.
//
// Misconfigured habits (unknown frequency type, weekdays habit with no
// days) are never due. They are logged, not returned as errors.
func IsScheduled(habit models.Habit, date time.Time) bool {
	switch f := habit.Frequency().(type) {
	case models.Daily:
		return true
	case models.Weekdays:
		if len(f.Days) == 0 {
			logger.Warn("weekdays habit has no weekdays configured", "habit", habit.ID)
			return false
		}
		for _, wd := range f.Days {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	case models.TimesPerWeek:
		n := f.N
		if n <= 0 {
			n = constants.DefaultTimesPerWeek
		}
		idx := isoWeekdayIndex(date.Weekday())
		// Due on the first n weekdays of the week; never on weekends.
		return idx >= 1 && idx <= 5 && idx <= n
	case models.UnknownFrequency:
		logger.Warn("habit has unknown frequency type", "habit", habit.ID, "frequency", f.Raw)
		return false
	default:
		return false
	}
}

// isoWeekdayIndex maps Monday..Sunday to 1..7.
func isoWeekdayIndex(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// DueHabits filters habits to those that are active and scheduled on date.
func DueHabits(habits []models.Habit, date time.Time) []models.Habit {
	var due []models.Habit
	for _, h := range habits {
		if h.Archived() {
			continue
		}
		if IsScheduled(h, date) {
			due = append(due, h)
		}
	}
	return due
}
