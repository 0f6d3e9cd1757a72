package models

import "time"

type GoalType string

const (
	// GoalAccumulative goals count linked completions.
	GoalAccumulative GoalType = "accumulative"
	// GoalTarget goals are updated by hand toward a target value.
	GoalTarget GoalType = "target"
)

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalArchived  GoalStatus = "archived"
)

type Goal struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Title        string     `json:"title"`
	GoalType     GoalType   `json:"goal_type"`
	TargetValue  int        `json:"target_value,omitempty"`
	CurrentValue int        `json:"current_value"`
	Status       GoalStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Propagates reports whether completions linked to this goal move its counter.
func (g Goal) Propagates() bool {
	return g.GoalType == GoalAccumulative && g.Status == GoalActive && g.DeletedAt == nil
}
