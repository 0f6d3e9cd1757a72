package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	qerrors "github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/scheduler"
	"github.com/julianstephens/questlog/internal/tui/components/today"
)

// chromeHeight is the space taken by the tab bar, status line and help.
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		h, v := docStyle.GetFrameSize()
		bodyHeight := max(msg.Height-v-chromeHeight, 3)
		m.todayModel.SetSize(msg.Width-h, bodyHeight)
		m.levelModel.SetWidth(msg.Width - h)
		m.oracleModel.SetSize(msg.Width-h, bodyHeight)
		m.help.Width = msg.Width - h
	}

	if m.state == StateCheckIn || m.state == StateAsk {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateTab(msg)
	}
	// Let the list own every key while its filter is open.
	if m.tab == TabToday && m.todayModel.Filtering() {
		return m.updateTab(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil
	case key.Matches(keyMsg, m.keys.Refresh):
		m.err = nil
		m.refresh()
		m.status = "Refreshed."
		return m, nil
	case key.Matches(keyMsg, m.keys.CheckIn):
		m.checkInForm = &CheckInFormModel{}
		m.form = NewCheckInForm(m.checkInForm)
		m.state = StateCheckIn
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Ask):
		m.askForm = &AskFormModel{}
		m.form = NewAskForm(m.askForm)
		m.state = StateAsk
		m.tab = TabOracle
		return m, m.form.Init()
	case key.Matches(keyMsg, m.keys.Generate):
		m.generate()
		return m, nil
	case m.tab == TabToday && key.Matches(keyMsg, m.keys.Toggle):
		if item, ok := m.todayModel.Selected(); ok {
			m.toggle(item)
		}
		return m, nil
	}
	return m.updateTab(msg)
}

func (m Model) updateTab(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case TabToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case TabOracle:
		m.oracleModel, cmd = m.oracleModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateBrowse
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == StateCheckIn {
			m.submitCheckIn()
		} else {
			m.ask()
		}
		m.state = StateBrowse
		m.form = nil
		return m, nil
	case huh.StateAborted:
		m.state = StateBrowse
		m.form = nil
		return m, nil
	}
	return m, cmd
}

// toggle completes a task, or flips a habit between done and not done.
func (m *Model) toggle(item today.Item) {
	switch {
	case item.Kind == today.KindTask && item.Done:
		m.setStatus(fmt.Sprintf("%s is already completed.", item.Task.Title), nil)
		return
	case item.Kind == today.KindTask:
		res, err := m.ctx.Ledger.CompleteTask(m.ctx.UserID, item.Task.ID, m.date)
		if err != nil {
			m.setStatus("", err)
			return
		}
		m.setStatus(fmt.Sprintf("Completed %s %s", item.Task.Title, xpStyle.Render(fmt.Sprintf("%+d XP", res.Transaction.Amount))), nil)
	case item.Done:
		res, err := m.ctx.Ledger.UncompleteHabit(m.ctx.UserID, item.Habit.ID, m.date)
		if err != nil {
			m.setStatus("", err)
			return
		}
		m.setStatus(fmt.Sprintf("Unchecked %s %s", item.Habit.Name, errorStyle.Render(fmt.Sprintf("%+d XP", res.Transaction.Amount))), nil)
	default:
		res, err := m.ctx.Ledger.CompleteHabit(m.ctx.UserID, item.Habit.ID, m.date)
		if err != nil {
			m.setStatus("", err)
			return
		}
		m.setStatus(fmt.Sprintf("%s done %s", item.Habit.Name, xpStyle.Render(fmt.Sprintf("%+d XP", res.Transaction.Amount))), nil)
	}
	m.refresh()
}

func (m *Model) generate() {
	report, err := scheduler.NewGenerator(m.ctx.Store).Generate(context.Background(), m.ctx.UserID, m.date)
	if err != nil {
		m.setStatus("", err)
		return
	}
	m.setStatus(fmt.Sprintf("Generated tasks: %s", report), report.Err)
	m.refresh()
}

func (m *Model) submitCheckIn() {
	checkIn, err := m.checkInForm.CheckIn(m.ctx.UserID, m.date)
	if err != nil {
		m.setStatus("", err)
		return
	}
	res, err := m.ctx.Ledger.SubmitCheckIn(checkIn)
	if err != nil {
		m.setStatus("", err)
		return
	}
	m.setStatus(fmt.Sprintf("Checked in for %s %s", m.date, xpStyle.Render(fmt.Sprintf("%+d XP", res.Transaction.Amount))), nil)
	m.refresh()
}

func (m *Model) ask() {
	question := strings.TrimSpace(m.askForm.Question)
	if question == "" {
		return
	}
	answer, err := m.ctx.Analyzer.Ask(m.ctx.UserID, m.date, question, m.ctx.Config.Tone)
	if err != nil {
		m.setStatus("", err)
		return
	}
	m.oracleModel.SetAnswer(question, answer)
	m.setStatus("", nil)
}

func (m *Model) setStatus(status string, err error) {
	m.status = status
	m.err = err
	if qerrors.IsValidation(err) || qerrors.IsNotFound(err) {
		// Rejected actions are the user's to fix; show them without the
		// error styling used for storage failures.
		m.status = err.Error()
		m.err = nil
	}
}
