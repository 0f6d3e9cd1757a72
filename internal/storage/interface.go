package storage

import "github.com/julianstephens/questlog/internal/models"

// Provider is the entity store. Every read and write is scoped by owner
// except the user listing that drives the global jobs.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	UserStore
	HabitStore
	HabitLogStore
	TaskStore
	XPStore
	CheckInStore
	GoalStore

	// Utils
	GetConfigPath() string
}

type UserStore interface {
	AddUser(models.User) error
	GetUser(id string) (models.User, error)
	// ListUsers returns up to limit users with IDs greater than afterID,
	// ordered by ID. An empty afterID starts from the beginning.
	ListUsers(afterID string, limit int) ([]models.User, error)
}

type HabitStore interface {
	AddHabit(models.Habit) error
	GetHabit(ownerID, id string) (models.Habit, error)
	GetHabitByName(ownerID, name string) (models.Habit, error)
	ListHabits(ownerID string, includeArchived bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(ownerID, id string) error
}

type HabitLogStore interface {
	// AddHabitLog returns ErrDuplicate when the habit already has a log for
	// that date.
	AddHabitLog(models.HabitLog) error
	GetHabitLog(ownerID, habitID, date string) (models.HabitLog, error)
	ListHabitLogs(ownerID, from, to string) ([]models.HabitLog, error)
	ListHabitLogsForHabit(ownerID, habitID, from, to string) ([]models.HabitLog, error)
	UpdateHabitLog(models.HabitLog) error
	DeleteHabitLog(ownerID, id string) error
}

type TaskStore interface {
	// AddTask returns ErrDuplicate when a task for the same habit and date
	// already exists. Tasks without a habit are never duplicates.
	AddTask(models.Task) error
	GetTask(ownerID, id string) (models.Task, error)
	ListTasks(ownerID string, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(ownerID, id string) error
}

type XPStore interface {
	AddXPTransaction(models.XPTransaction) error
	// ListXPTransactions returns the newest transactions first. A limit of
	// zero or less returns all of them.
	ListXPTransactions(ownerID string, limit int) ([]models.XPTransaction, error)
	SumXP(ownerID string) (int, error)
}

type CheckInStore interface {
	// AddCheckIn returns ErrDuplicate when the user already checked in on
	// that date.
	AddCheckIn(models.CheckIn) error
	GetCheckIn(ownerID, date string) (models.CheckIn, error)
	ListCheckIns(ownerID, from, to string) ([]models.CheckIn, error)
}

type GoalStore interface {
	AddGoal(models.Goal) error
	GetGoal(ownerID, id string) (models.Goal, error)
	ListGoals(ownerID string, includeDeleted bool) ([]models.Goal, error)
	UpdateGoal(models.Goal) error
	DeleteGoal(ownerID, id string) error
	// AdjustGoalProgress adds delta to current_value of an active,
	// non-deleted accumulative goal, never going below zero. It reports
	// whether a goal was changed; any other goal is left untouched.
	AdjustGoalProgress(ownerID, id string, delta int) (bool, error)
}
