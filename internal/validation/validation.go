package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/utils"
)

// Habit rejects a habit that cannot be stored. Scheduling defects that the
// recurrence predicate tolerates (an empty weekday set) are also rejected
// here so new habits never carry them.
func Habit(h models.Habit) error {
	if strings.TrimSpace(h.Name) == "" {
		return qerrors.Invalid("name", "must not be empty")
	}
	if h.XPReward < 0 {
		return qerrors.Invalid("xp_reward", "must not be negative, got %d", h.XPReward)
	}
	if err := difficulty(h.Difficulty); err != nil {
		return err
	}

	switch f := h.Frequency().(type) {
	case models.Daily:
	case models.Weekdays:
		if len(f.Days) == 0 {
			return qerrors.Invalid("weekdays", "a weekdays habit needs at least one day")
		}
	case models.TimesPerWeek:
		if f.N < 0 || f.N > 5 {
			return qerrors.Invalid("times_per_week", "must be between 1 and 5 (0 uses the default), got %d", f.N)
		}
	case models.UnknownFrequency:
		return qerrors.Invalid("frequency", "unknown frequency type %q", f.Raw)
	}

	for _, rt := range h.ReminderTimes {
		if !utils.ValidateTimeFormat(rt) {
			return qerrors.Invalid("reminder_times", "invalid time %q, expected HH:MM", rt)
		}
	}
	if h.TimeOfDay != "" && !utils.ValidateTimeFormat(h.TimeOfDay) {
		return qerrors.Invalid("time_of_day", "invalid time %q, expected HH:MM", h.TimeOfDay)
	}
	return nil
}

func Task(t models.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return qerrors.Invalid("title", "must not be empty")
	}
	if _, err := utils.ParseDate(t.Date); err != nil {
		return qerrors.Invalid("date", "invalid date %q, expected YYYY-MM-DD", t.Date)
	}
	if t.TimeOfDay != "" && !utils.ValidateTimeFormat(t.TimeOfDay) {
		return qerrors.Invalid("time_of_day", "invalid time %q, expected HH:MM", t.TimeOfDay)
	}
	if t.XPReward < 0 {
		return qerrors.Invalid("xp_reward", "must not be negative, got %d", t.XPReward)
	}
	return difficulty(t.Difficulty)
}

func CheckIn(c models.CheckIn) error {
	if _, err := utils.ParseDate(c.Date); err != nil {
		return qerrors.Invalid("date", "invalid date %q, expected YYYY-MM-DD", c.Date)
	}
	scores := []struct {
		field string
		value int
	}{
		{"sleep_score", c.SleepScore},
		{"productivity_score", c.ProductivityScore},
		{"mood_score", c.MoodScore},
	}
	for _, s := range scores {
		if s.value < 0 || s.value > constants.MaxScore {
			return qerrors.Invalid(s.field, "must be between 0 and %d, got %d", constants.MaxScore, s.value)
		}
	}
	return nil
}

func Goal(g models.Goal) error {
	if strings.TrimSpace(g.Title) == "" {
		return qerrors.Invalid("title", "must not be empty")
	}
	switch g.GoalType {
	case models.GoalAccumulative, models.GoalTarget:
	default:
		return qerrors.Invalid("goal_type", "must be %q or %q, got %q", models.GoalAccumulative, models.GoalTarget, g.GoalType)
	}
	switch g.Status {
	case models.GoalActive, models.GoalCompleted, models.GoalArchived:
	default:
		return qerrors.Invalid("status", "unknown status %q", g.Status)
	}
	if g.TargetValue < 0 {
		return qerrors.Invalid("target_value", "must not be negative, got %d", g.TargetValue)
	}
	if g.CurrentValue < 0 {
		return qerrors.Invalid("current_value", "must not be negative, got %d", g.CurrentValue)
	}
	return nil
}

func difficulty(d models.Difficulty) error {
	switch d {
	case "", models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return nil
	}
	return qerrors.Invalid("difficulty", "must be easy, medium or hard, got %q", d)
}

// Issue is a stored habit whose configuration keeps it from ever being
// scheduled.
type Issue struct {
	HabitID     string
	HabitName   string
	Description string
}

// Report collects issues found across stored habits.
type Report struct {
	Issues []Issue
}

func (r Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// FormatReport returns a human-readable report of all issues
func (r Report) FormatReport() string {
	if !r.HasIssues() {
		return "No habit configuration issues detected."
	}
	var b strings.Builder
	b.WriteString("Habit configuration issues:\n")
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "- %s (%s): %s\n", issue.HabitName, issue.HabitID, issue.Description)
	}
	return b.String()
}

// AuditHabits finds stored habits that the scheduler will silently skip.
func AuditHabits(habits []models.Habit) Report {
	var report Report
	for _, h := range habits {
		if h.Archived() {
			continue
		}
		var desc string
		switch f := h.Frequency().(type) {
		case models.Weekdays:
			if len(f.Days) == 0 {
				desc = "weekdays frequency with no days selected; never scheduled"
			}
		case models.UnknownFrequency:
			desc = fmt.Sprintf("unknown frequency type %q; never scheduled", f.Raw)
		}
		if desc != "" {
			report.Issues = append(report.Issues, Issue{HabitID: h.ID, HabitName: h.Name, Description: desc})
		}
	}
	return report
}
