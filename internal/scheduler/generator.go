package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/utils"
)

type GeneratorStore interface {
	storage.HabitStore
	storage.TaskStore
}

// Generator creates the day's tasks for a user's due habits.
type Generator struct {
	store GeneratorStore
	now   func() time.Time
}

func NewGenerator(store GeneratorStore) *Generator {
	return &Generator{store: store, now: time.Now}
}

// Generate creates at most one task per due habit for day. Habits that
// already have a task for day are skipped, so running it again is a no-op.
// The returned error is only set when the user's habits cannot be read;
// per-habit failures are counted in the report.
func (g *Generator) Generate(ctx context.Context, userID, day string) (Report, error) {
	var report Report

	date, err := utils.ParseDate(day)
	if err != nil {
		return report, qerrors.Invalid("date", "%v", err)
	}

	habits, err := g.store.ListHabits(userID, false)
	if err != nil {
		return report, qerrors.Persistence("list habits", err)
	}
	due := utils.DueHabits(habits, date)
	if len(due) == 0 {
		return report, nil
	}

	existing, err := g.store.ListTasks(userID, models.TaskFilter{From: day, To: day, IncludeArchived: true})
	if err != nil {
		return report, qerrors.Persistence("list tasks", err)
	}
	generated := make(map[string]bool, len(existing))
	for _, t := range existing {
		if t.HabitID != "" {
			generated[t.HabitID] = true
		}
	}

	for _, habit := range due {
		if err := ctx.Err(); err != nil {
			report.Err = errors.Join(report.Err, err)
			break
		}
		if generated[habit.ID] {
			report.Skipped++
			continue
		}

		task := TaskFromHabit(habit, day, g.now())
		err := g.store.AddTask(task)
		switch {
		case err == nil:
			report.Created++
		case errors.Is(err, storage.ErrDuplicate):
			// Another run created it between the read and the insert.
			report.Skipped++
		default:
			logger.Warn("Failed to generate task", "user", userID, "habit", habit.ID, "date", day, "error", err)
			report.fail(fmt.Errorf("habit %s: %w", habit.ID, err))
		}
	}

	logger.Debug("Task generation finished", "user", userID, "date", day, "created", report.Created, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// TaskFromHabit builds the generated task for habit on day.
func TaskFromHabit(habit models.Habit, day string, now time.Time) models.Task {
	reward := habit.XPReward
	if reward <= 0 {
		reward = constants.DefaultHabitXP
	}
	return models.Task{
		ID:         uuid.NewString(),
		OwnerID:    habit.OwnerID,
		Title:      habit.Name,
		Date:       day,
		TimeOfDay:  habitTimeOfDay(habit),
		XPReward:   reward,
		Difficulty: habit.Difficulty,
		HabitID:    habit.ID,
		CreatedAt:  now,
	}
}

func habitTimeOfDay(habit models.Habit) string {
	if len(habit.ReminderTimes) > 0 && habit.ReminderTimes[0] != "" {
		return habit.ReminderTimes[0]
	}
	if habit.TimeOfDay != "" {
		return habit.TimeOfDay
	}
	return constants.EndOfDay
}
