package goals

import (
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/storage"
)

// Progress moves accumulative goal counters when linked habits and tasks
// are completed or undone.
type Progress struct {
	store storage.GoalStore
}

func New(store storage.GoalStore) *Progress {
	return &Progress{store: store}
}

// Completed records one linked completion. It reports whether a goal moved;
// an empty goalID, a missing goal, or a goal that is not active, not
// accumulative or deleted is skipped without error.
func (p *Progress) Completed(userID, goalID string) (bool, error) {
	return p.adjust(userID, goalID, 1)
}

// Uncompleted reverses one linked completion, never taking the counter
// below zero.
func (p *Progress) Uncompleted(userID, goalID string) (bool, error) {
	return p.adjust(userID, goalID, -1)
}

func (p *Progress) adjust(userID, goalID string, delta int) (bool, error) {
	if goalID == "" {
		return false, nil
	}
	changed, err := p.store.AdjustGoalProgress(userID, goalID, delta)
	if err != nil {
		return false, qerrors.Persistence("adjust goal progress", err)
	}
	if changed {
		logger.Debug("Goal progress adjusted", "user", userID, "goal", goalID, "delta", delta)
	}
	return changed, nil
}
