package models

import "time"

type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Date        string     `json:"date"`        // YYYY-MM-DD format
	TimeOfDay   string     `json:"time_of_day"` // HH:MM format
	XPReward    int        `json:"xp_reward"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
	Priority    int        `json:"priority"`
	HabitID     string     `json:"habit_id,omitempty"`
	GoalID      string     `json:"goal_id,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// IsOverdue reports whether the task's due date has passed without
// completion. today is a YYYY-MM-DD date.
func (t Task) IsOverdue(today string) bool {
	return !t.Completed && t.Date < today
}

func (t Task) Archived() bool {
	return t.ArchivedAt != nil
}

// TaskFilter narrows a task listing. Empty fields do not filter.
type TaskFilter struct {
	From            string // inclusive, YYYY-MM-DD
	To              string // inclusive, YYYY-MM-DD
	HabitID         string
	OnlyCompleted   bool
	IncludeArchived bool
}
