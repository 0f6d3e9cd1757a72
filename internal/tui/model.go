// Package tui is the interactive dashboard: today's habits and tasks, level
// progress, and the oracle.
package tui

import (
	"sort"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/questlog/internal/cli"
	"github.com/julianstephens/questlog/internal/ledger"
	"github.com/julianstephens/questlog/internal/models"
	"github.com/julianstephens/questlog/internal/oracle"
	"github.com/julianstephens/questlog/internal/tui/components/insights"
	"github.com/julianstephens/questlog/internal/tui/components/level"
	"github.com/julianstephens/questlog/internal/tui/components/today"
	"github.com/julianstephens/questlog/internal/utils"
)

type Tab int

const (
	TabToday Tab = iota
	TabProgress
	TabOracle
)

var tabNames = []string{"Today", "Progress", "Oracle"}

type SessionState int

const (
	StateBrowse SessionState = iota
	StateCheckIn
	StateAsk
)

// historySize is how many ledger entries the Progress tab shows.
const historySize = 12

// streakWindow bounds the habit logs read to compute streaks.
const streakWindow = 365

type Model struct {
	ctx         *cli.Context
	tab         Tab
	state       SessionState
	keys        KeyMap
	help        help.Model
	todayModel  today.Model
	levelModel  level.Model
	oracleModel insights.Model
	form        *huh.Form
	checkInForm *CheckInFormModel
	askForm     *AskFormModel
	date        string
	status      string
	err         error
	width       int
	height      int
	quitting    bool
}

func NewModel(ctx *cli.Context) Model {
	m := Model{
		ctx:         ctx,
		tab:         TabToday,
		state:       StateBrowse,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		todayModel:  today.New(0, 0),
		levelModel:  level.New(0),
		oracleModel: insights.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

// refresh reloads every tab from the store.
func (m *Model) refresh() {
	date, err := m.ctx.Today()
	if err != nil {
		m.err = err
		return
	}
	m.date = date

	items, err := LoadToday(m.ctx, date)
	if err != nil {
		m.err = err
		return
	}
	m.todayModel.SetItems(items)

	total, err := m.ctx.Ledger.Total(m.ctx.UserID)
	if err != nil {
		m.err = err
		return
	}
	history, err := m.ctx.Ledger.History(m.ctx.UserID, historySize)
	if err != nil {
		m.err = err
		return
	}
	m.levelModel.SetData(m.ctx.Curve.FromXP(total), history)

	// Insights are read without notifying sinks; the dashboard refreshes
	// too often for that.
	in, err := m.ctx.Analyzer.Load(m.ctx.UserID, date)
	if err != nil {
		m.err = err
		return
	}
	m.oracleModel.SetInsights(oracle.Analyze(in, date))
}

// LoadToday builds the Today rows: habits due on date first, then tasks
// dated on date and incomplete tasks from earlier days.
func LoadToday(ctx *cli.Context, date string) ([]today.Item, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, err
	}
	habits, err := ctx.Store.ListHabits(ctx.UserID, false)
	if err != nil {
		return nil, err
	}
	from, err := utils.AddDays(date, -streakWindow)
	if err != nil {
		return nil, err
	}
	logs, err := ctx.Store.ListHabitLogs(ctx.UserID, from, date)
	if err != nil {
		return nil, err
	}
	byHabit := map[string][]models.HabitLog{}
	for _, log := range logs {
		byHabit[log.HabitID] = append(byHabit[log.HabitID], log)
	}

	var items []today.Item
	for _, h := range utils.DueHabits(habits, day) {
		done := false
		for _, log := range byHabit[h.ID] {
			if log.Date == date && log.Completed {
				done = true
			}
		}
		items = append(items, today.Item{
			Kind:   today.KindHabit,
			Habit:  h,
			Done:   done,
			Streak: ledger.Streak(h, byHabit[h.ID], date),
		})
	}

	tasks, err := ctx.Store.ListTasks(ctx.UserID, models.TaskFilter{To: date})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		return tasks[i].TimeOfDay < tasks[j].TimeOfDay
	})
	for _, t := range tasks {
		if t.Date != date && t.Completed {
			continue
		}
		items = append(items, today.Item{
			Kind:    today.KindTask,
			Task:    t,
			Done:    t.Completed,
			Overdue: t.IsOverdue(date),
		})
	}
	return items, nil
}
