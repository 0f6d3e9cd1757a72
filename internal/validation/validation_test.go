package validation

import (
	"strings"
	"testing"
	"time"

	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/models"
)

func TestHabit(t *testing.T) {
	valid := models.Habit{Name: "Read", FrequencyType: models.FrequencyDaily, XPReward: 8}

	tests := []struct {
		name      string
		mutate    func(h *models.Habit)
		wantField string
	}{
		{name: "valid daily", mutate: func(h *models.Habit) {}},
		{name: "empty name", mutate: func(h *models.Habit) { h.Name = "  " }, wantField: "name"},
		{name: "negative reward", mutate: func(h *models.Habit) { h.XPReward = -1 }, wantField: "xp_reward"},
		{name: "bad difficulty", mutate: func(h *models.Habit) { h.Difficulty = "brutal" }, wantField: "difficulty"},
		{
			name: "weekdays without days",
			mutate: func(h *models.Habit) {
				h.FrequencyType = models.FrequencyWeekdays
			},
			wantField: "weekdays",
		},
		{
			name: "weekdays with days",
			mutate: func(h *models.Habit) {
				h.FrequencyType = models.FrequencyWeekdays
				h.Weekdays = []time.Weekday{time.Monday}
			},
		},
		{
			name: "times per week default",
			mutate: func(h *models.Habit) {
				h.FrequencyType = models.FrequencyTimesPerWeek
			},
		},
		{
			name: "times per week too high",
			mutate: func(h *models.Habit) {
				h.FrequencyType = models.FrequencyTimesPerWeek
				h.TimesPerWeek = 6
			},
			wantField: "times_per_week",
		},
		{name: "unknown frequency", mutate: func(h *models.Habit) { h.FrequencyType = "fortnightly" }, wantField: "frequency"},
		{name: "bad reminder", mutate: func(h *models.Habit) { h.ReminderTimes = []string{"7am"} }, wantField: "reminder_times"},
		{name: "bad time of day", mutate: func(h *models.Habit) { h.TimeOfDay = "25:00" }, wantField: "time_of_day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mutate(&h)
			assertField(t, Habit(h), tt.wantField)
		})
	}
}

func TestTask(t *testing.T) {
	valid := models.Task{Title: "File taxes", Date: "2026-04-01", XPReward: 10}

	tests := []struct {
		name      string
		mutate    func(t *models.Task)
		wantField string
	}{
		{name: "valid", mutate: func(t *models.Task) {}},
		{name: "empty title", mutate: func(t *models.Task) { t.Title = "" }, wantField: "title"},
		{name: "bad date", mutate: func(t *models.Task) { t.Date = "04/01/2026" }, wantField: "date"},
		{name: "bad time", mutate: func(t *models.Task) { t.TimeOfDay = "noon" }, wantField: "time_of_day"},
		{name: "negative reward", mutate: func(t *models.Task) { t.XPReward = -5 }, wantField: "xp_reward"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid
			tt.mutate(&task)
			assertField(t, Task(task), tt.wantField)
		})
	}
}

func TestCheckIn(t *testing.T) {
	tests := []struct {
		name      string
		checkIn   models.CheckIn
		wantField string
	}{
		{name: "valid", checkIn: models.CheckIn{Date: "2026-01-05", SleepScore: 7, ProductivityScore: 5, MoodScore: 10}},
		{name: "bad date", checkIn: models.CheckIn{Date: "yesterday"}, wantField: "date"},
		{name: "sleep too high", checkIn: models.CheckIn{Date: "2026-01-05", SleepScore: 11}, wantField: "sleep_score"},
		{name: "mood negative", checkIn: models.CheckIn{Date: "2026-01-05", MoodScore: -1}, wantField: "mood_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertField(t, CheckIn(tt.checkIn), tt.wantField)
		})
	}
}

func TestGoal(t *testing.T) {
	valid := models.Goal{Title: "Run 100 times", GoalType: models.GoalAccumulative, Status: models.GoalActive, TargetValue: 100}

	tests := []struct {
		name      string
		mutate    func(g *models.Goal)
		wantField string
	}{
		{name: "valid", mutate: func(g *models.Goal) {}},
		{name: "empty title", mutate: func(g *models.Goal) { g.Title = "" }, wantField: "title"},
		{name: "bad type", mutate: func(g *models.Goal) { g.GoalType = "streak" }, wantField: "goal_type"},
		{name: "bad status", mutate: func(g *models.Goal) { g.Status = "paused" }, wantField: "status"},
		{name: "negative target", mutate: func(g *models.Goal) { g.TargetValue = -1 }, wantField: "target_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			assertField(t, Goal(g), tt.wantField)
		})
	}
}

func TestAuditHabits(t *testing.T) {
	archived := time.Now()
	habits := []models.Habit{
		{ID: "ok", Name: "Read", FrequencyType: models.FrequencyDaily},
		{ID: "empty", Name: "Gym", FrequencyType: models.FrequencyWeekdays},
		{ID: "odd", Name: "Paint", FrequencyType: "monthly"},
		{ID: "old", Name: "Old", FrequencyType: "monthly", ArchivedAt: &archived},
	}

	report := AuditHabits(habits)
	if len(report.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %+v", len(report.Issues), report.Issues)
	}
	if report.Issues[0].HabitID != "empty" || report.Issues[1].HabitID != "odd" {
		t.Errorf("unexpected issues: %+v", report.Issues)
	}
	if !strings.Contains(report.FormatReport(), "monthly") {
		t.Errorf("report should name the unknown frequency:\n%s", report.FormatReport())
	}

	if AuditHabits(habits[:1]).HasIssues() {
		t.Error("a daily habit should not be reported")
	}
}

func assertField(t *testing.T, err error, wantField string) {
	t.Helper()
	if wantField == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if !qerrors.IsValidation(err) {
		t.Fatalf("expected a validation error for %s, got %v", wantField, err)
	}
	ve, ok := err.(*qerrors.ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != wantField {
		t.Errorf("field = %q, want %q", ve.Field, wantField)
	}
}
