package models

import (
	"fmt"
	"strings"
	"time"
)

type FrequencyType string

const (
	FrequencyDaily        FrequencyType = "daily"
	FrequencyWeekdays     FrequencyType = "weekdays"
	FrequencyTimesPerWeek FrequencyType = "timesPerWeek"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Frequency is the recurrence rule of a habit. The concrete variants are
// Daily, Weekdays, TimesPerWeek and UnknownFrequency.
type Frequency interface {
	Type() FrequencyType
	frequency()
}

type Daily struct{}

type Weekdays struct {
	Days []time.Weekday
}

type TimesPerWeek struct {
	N int
}

// UnknownFrequency carries a frequency type this build does not understand.
type UnknownFrequency struct {
	Raw FrequencyType
}

func (Daily) Type() FrequencyType              { return FrequencyDaily }
func (Weekdays) Type() FrequencyType           { return FrequencyWeekdays }
func (TimesPerWeek) Type() FrequencyType       { return FrequencyTimesPerWeek }
func (u UnknownFrequency) Type() FrequencyType { return u.Raw }

func (Daily) frequency()            {}
func (Weekdays) frequency()         {}
func (TimesPerWeek) frequency()     {}
func (UnknownFrequency) frequency() {}

// Habit represents a recurring practice to track
type Habit struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"owner_id"`
	Name          string         `json:"name"`
	FrequencyType FrequencyType  `json:"frequency_type"`
	Weekdays      []time.Weekday `json:"weekdays,omitempty"`
	TimesPerWeek  int            `json:"times_per_week,omitempty"`
	XPReward      int            `json:"xp_reward"`
	Difficulty    Difficulty     `json:"difficulty,omitempty"`
	GoalID        string         `json:"goal_id,omitempty"`
	ReminderTimes []string       `json:"reminder_times,omitempty"` // HH:MM format
	TimeOfDay     string         `json:"time_of_day,omitempty"`    // HH:MM format
	CreatedAt     time.Time      `json:"created_at"`
	ArchivedAt    *time.Time     `json:"archived_at,omitempty"`
}

// Frequency returns the habit's recurrence rule as a tagged variant.
func (h Habit) Frequency() Frequency {
	switch h.FrequencyType {
	case FrequencyDaily:
		return Daily{}
	case FrequencyWeekdays:
		return Weekdays{Days: h.Weekdays}
	case FrequencyTimesPerWeek:
		return TimesPerWeek{N: h.TimesPerWeek}
	default:
		return UnknownFrequency{Raw: h.FrequencyType}
	}
}

func (h Habit) Archived() bool {
	return h.ArchivedAt != nil
}

var weekdayCodes = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekdayCode returns the three-letter code for a weekday (sun..sat).
func WeekdayCode(wd time.Weekday) string {
	return weekdayCodes[wd]
}

// ParseWeekdayCode parses a weekday code or full English weekday name.
func ParseWeekdayCode(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, code := range weekdayCodes {
		if s == code || s == strings.ToLower(time.Weekday(i).String()) {
			return time.Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// HabitLog is the record of whether a due habit was completed on a day.
// A log with Completed=false is a miss written by the backfill job.
type HabitLog struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	HabitID   string    `json:"habit_id"`
	Date      string    `json:"date"` // YYYY-MM-DD format
	Completed bool      `json:"completed"`
	XPEarned  int       `json:"xp_earned"`
	CreatedAt time.Time `json:"created_at"`
}
