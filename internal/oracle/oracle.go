package oracle

import (
	"github.com/julianstephens/questlog/internal/constants"
	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/logger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/notifier"
	"github.com/julianstephens/questlog/internal/storage"
	"github.com/julianstephens/questlog/internal/utils"
)

type Store interface {
	storage.CheckInStore
	storage.TaskStore
	storage.HabitLogStore
}

// Analyzer loads a user's window of history and runs Analyze over it.
type Analyzer struct {
	store Store
	sink  notifier.Sink
}

func NewAnalyzer(store Store, sink notifier.Sink) *Analyzer {
	if sink == nil {
		sink = notifier.Discard
	}
	return &Analyzer{store: store, sink: sink}
}

// Load reads the records Analyze needs for the window ending on today.
func (a *Analyzer) Load(userID, today string) (Input, error) {
	from, err := utils.AddDays(today, -(constants.OracleWindowDays - 1))
	if err != nil {
		return Input{}, qerrors.Invalid("date", "%v", err)
	}

	checkIns, err := a.store.ListCheckIns(userID, from, today)
	if err != nil {
		return Input{}, qerrors.Persistence("list check-ins", err)
	}
	// Archived tasks are still history.
	tasks, err := a.store.ListTasks(userID, models.TaskFilter{From: from, To: today, IncludeArchived: true})
	if err != nil {
		return Input{}, qerrors.Persistence("list tasks", err)
	}
	logs, err := a.store.ListHabitLogs(userID, from, today)
	if err != nil {
		return Input{}, qerrors.Persistence("list habit logs", err)
	}
	return Input{CheckIns: checkIns, Tasks: tasks, HabitLogs: logs}, nil
}

// Insights loads and analyzes the user's history and hands the result to
// the sink.
func (a *Analyzer) Insights(userID, today string) ([]models.Insight, error) {
	in, err := a.Load(userID, today)
	if err != nil {
		return nil, err
	}
	insights := Analyze(in, today)
	logger.Debug("Oracle analysis finished", "user", userID, "date", today, "insights", len(insights))
	a.sink.InsightsReady(userID, insights)
	return insights, nil
}

// Ask answers text from the user's current insights.
func (a *Analyzer) Ask(userID, today, text, tone string) (string, error) {
	insights, err := a.Insights(userID, today)
	if err != nil {
		return "", err
	}
	return Respond(text, insights, tone), nil
}
