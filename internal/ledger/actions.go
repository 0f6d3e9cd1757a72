package ledger

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/utils"
	"github.com/julianstephens/questlog/internal/validation"
)

// HabitResult is the outcome of toggling a habit for a day.
type HabitResult struct {
	Log         models.HabitLog
	Transaction models.XPTransaction
	GoalUpdated bool
}

type TaskResult struct {
	Task        models.Task
	Transaction models.XPTransaction
	Overdue     bool
	GoalUpdated bool
}

type CheckInResult struct {
	CheckIn     models.CheckIn
	Transaction models.XPTransaction
}

// HabitReward is the XP a habit is worth, falling back to the default.
func HabitReward(h models.Habit) int {
	if h.XPReward > 0 {
		return h.XPReward
	}
	return constants.DefaultHabitXP
}

// TaskReward is the XP for completing a task. Overdue tasks earn half,
// rounded half away from zero.
func TaskReward(reward int, overdue bool) int {
	if !overdue {
		return reward
	}
	return int(math.Round(float64(reward) * constants.OverdueRewardFactor))
}

// CompleteHabit marks habitID done on date and awards its reward. A miss
// recorded by the backfill job is converted in place.
func (l *Ledger) CompleteHabit(userID, habitID, date string) (HabitResult, error) {
	habit, err := l.habit(userID, habitID)
	if err != nil {
		return HabitResult{}, err
	}
	if _, err := utils.ParseDate(date); err != nil {
		return HabitResult{}, qerrors.Invalid("date", "%v", err)
	}
	reward := HabitReward(habit)

	log, err := l.store.GetHabitLog(userID, habitID, date)
	var revert func() error
	switch {
	case err == nil && log.Completed:
		return HabitResult{}, qerrors.Invalid("habit", "%s is already completed for %s", habit.Name, date)
	case err == nil:
		miss := log
		revert = func() error { return l.store.UpdateHabitLog(miss) }
		log.Completed = true
		log.XPEarned = reward
		if err := l.store.UpdateHabitLog(log); err != nil {
			return HabitResult{}, qerrors.Persistence("update habit log", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		log = models.HabitLog{
			ID:        uuid.NewString(),
			OwnerID:   userID,
			HabitID:   habitID,
			Date:      date,
			Completed: true,
			XPEarned:  reward,
			CreatedAt: l.now(),
		}
		if err := l.store.AddHabitLog(log); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return HabitResult{}, qerrors.Invalid("habit", "%s was logged for %s concurrently, try again", habit.Name, date)
			}
			return HabitResult{}, qerrors.Persistence("add habit log", err)
		}
		id := log.ID
		revert = func() error { return l.store.DeleteHabitLog(userID, id) }
	default:
		return HabitResult{}, qerrors.Persistence("get habit log", err)
	}

	tx, err := l.award(userID, reward, models.SourceHabit, habitID, fmt.Sprintf("Completed %s (%s)", habit.Name, date))
	if err != nil {
		return HabitResult{}, rollback(err, "habit log", revert)
	}
	moved, err := l.goals.Completed(userID, habit.GoalID)
	if err != nil {
		return HabitResult{}, err
	}

	l.emit(tx)
	return HabitResult{Log: log, Transaction: tx, GoalUpdated: moved}, nil
}

// UncompleteHabit removes a completed log for date and charges twice the
// reward, so that completing then uncompleting nets minus one reward.
func (l *Ledger) UncompleteHabit(userID, habitID, date string) (HabitResult, error) {
	habit, err := l.habit(userID, habitID)
	if err != nil {
		return HabitResult{}, err
	}

	log, err := l.store.GetHabitLog(userID, habitID, date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return HabitResult{}, qerrors.Invalid("habit", "%s is not completed for %s", habit.Name, date)
		}
		return HabitResult{}, qerrors.Persistence("get habit log", err)
	}
	if !log.Completed {
		return HabitResult{}, qerrors.Invalid("habit", "%s is not completed for %s", habit.Name, date)
	}
	if err := l.store.DeleteHabitLog(userID, log.ID); err != nil {
		return HabitResult{}, qerrors.Persistence("delete habit log", err)
	}

	penalty := -constants.UncompletePenaltyMultiplier * HabitReward(habit)
	tx, err := l.award(userID, penalty, models.SourceHabit, habitID, fmt.Sprintf("Unchecked %s (%s)", habit.Name, date))
	if err != nil {
		return HabitResult{}, rollback(err, "habit log", func() error { return l.store.AddHabitLog(log) })
	}
	moved, err := l.goals.Uncompleted(userID, habit.GoalID)
	if err != nil {
		return HabitResult{}, err
	}

	l.emit(tx)
	return HabitResult{Log: log, Transaction: tx, GoalUpdated: moved}, nil
}

// CompleteTask completes a task once. Tasks past their date earn the
// overdue reward; today is the user's current calendar date.
func (l *Ledger) CompleteTask(userID, taskID, today string) (TaskResult, error) {
	task, err := l.store.GetTask(userID, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TaskResult{}, qerrors.NotFound("task", taskID)
		}
		return TaskResult{}, qerrors.Persistence("get task", err)
	}
	if task.Completed {
		return TaskResult{}, qerrors.Invalid("task", "%q is already completed", task.Title)
	}

	overdue := task.IsOverdue(today)
	reward := TaskReward(task.XPReward, overdue)

	pending := task
	completedAt := l.now()
	task.Completed = true
	task.CompletedAt = &completedAt
	if err := l.store.UpdateTask(task); err != nil {
		return TaskResult{}, qerrors.Persistence("update task", err)
	}

	note := "Completed " + task.Title
	if overdue {
		note += " (overdue)"
	}
	tx, err := l.award(userID, reward, models.SourceTask, taskID, note)
	if err != nil {
		return TaskResult{}, rollback(err, "task", func() error { return l.store.UpdateTask(pending) })
	}
	moved, err := l.goals.Completed(userID, task.GoalID)
	if err != nil {
		return TaskResult{}, err
	}

	l.emit(tx)
	return TaskResult{Task: task, Transaction: tx, Overdue: overdue, GoalUpdated: moved}, nil
}

// SubmitCheckIn records the day's check-in and awards the fixed reward. A
// second check-in for the same date is rejected without writing.
func (l *Ledger) SubmitCheckIn(c models.CheckIn) (CheckInResult, error) {
	if c.OwnerID == "" {
		return CheckInResult{}, qerrors.Invalid("user", "must not be empty")
	}
	if err := validation.CheckIn(c); err != nil {
		return CheckInResult{}, err
	}

	_, err := l.store.GetCheckIn(c.OwnerID, c.Date)
	if err == nil {
		return CheckInResult{}, qerrors.Invalid("date", "already checked in for %s", c.Date)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return CheckInResult{}, qerrors.Persistence("get check-in", err)
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = l.now()
	if err := l.store.AddCheckIn(c); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return CheckInResult{}, qerrors.Invalid("date", "already checked in for %s", c.Date)
		}
		return CheckInResult{}, qerrors.Persistence("add check-in", err)
	}

	tx, err := l.award(c.OwnerID, constants.CheckInXP, models.SourceCheckIn, c.ID, "Daily check-in "+c.Date)
	if err != nil {
		return CheckInResult{}, err
	}
	l.emit(tx)
	return CheckInResult{CheckIn: c, Transaction: tx}, nil
}

// rollback undoes an entity write whose XP award failed, so that the entity
// and the ledger never disagree. A failed undo is joined onto err.
func rollback(err error, kind string, undo func() error) error {
	if undo == nil {
		return err
	}
	if uerr := undo(); uerr != nil {
		logger.Error("Failed to roll back after a ledger write failed", "kind", kind, "error", uerr)
		return errors.Join(err, qerrors.Persistence("roll back "+kind, uerr))
	}
	return err
}

func (l *Ledger) habit(userID, habitID string) (models.Habit, error) {
	habit, err := l.store.GetHabit(userID, habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Habit{}, qerrors.NotFound("habit", habitID)
		}
		return models.Habit{}, qerrors.Persistence("get habit", err)
	}
	return habit, nil
}
