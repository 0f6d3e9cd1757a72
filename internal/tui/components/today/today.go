package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/questlog/internal/ledger"
	"github.com/julianstephens/questlog/internal/models"
)

type Kind int

const (
	KindHabit Kind = iota
	KindTask
)

// Item is one row of the Today tab: a habit due today or a task.
type Item struct {
	Kind    Kind
	Habit   models.Habit
	Task    models.Task
	Done    bool
	Streak  int
	Overdue bool
}

func (i Item) Title() string {
	mark := "○ "
	if i.Done {
		mark = "✓ "
	}
	if i.Kind == KindHabit {
		return mark + i.Habit.Name
	}
	title := mark + i.Task.Title
	if i.Overdue {
		title += " (overdue)"
	}
	return title
}

func (i Item) Description() string {
	if i.Kind == KindHabit {
		return fmt.Sprintf("habit · %d XP · streak %d", ledger.HabitReward(i.Habit), i.Streak)
	}
	reward := ledger.TaskReward(i.Task.XPReward, i.Overdue)
	desc := fmt.Sprintf("task · %s %s · %d XP", i.Task.Date, i.Task.TimeOfDay, reward)
	if i.Task.HabitID != "" {
		desc += " · from habit"
	}
	return desc
}

func (i Item) FilterValue() string {
	if i.Kind == KindHabit {
		return i.Habit.Name
	}
	return i.Task.Title
}

type Model struct {
	list list.Model
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("item", "items")
	return Model{list: l}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "Nothing due today. Press 'g' to generate tasks from your habits."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// SetItems replaces the rows, keeping the cursor where it was when possible.
func (m *Model) SetItems(items []Item) {
	idx := m.list.Index()
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = it
	}
	m.list.SetItems(listItems)
	if idx < len(listItems) {
		m.list.Select(idx)
	}
}

// Selected returns the highlighted row.
func (m Model) Selected() (Item, bool) {
	it, ok := m.list.SelectedItem().(Item)
	return it, ok
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
