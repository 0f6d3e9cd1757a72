package insights

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/questlog/internal/models"
)

var (
	highStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	mediumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	lowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	answerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("62")).
			PaddingLeft(1)
)

// Model lists the current insights and the last answer to a question.
type Model struct {
	viewport viewport.Model
	insights []models.Insight
	question string
	answer   string
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.render()
}

func (m *Model) SetInsights(insights []models.Insight) {
	m.insights = insights
	m.render()
}

func (m *Model) SetAnswer(question, answer string) {
	m.question = question
	m.answer = answer
	m.render()
	m.viewport.GotoTop()
}

func (m *Model) render() {
	var b strings.Builder
	if m.answer != "" {
		b.WriteString(mutedStyle.Render("You asked: " + m.question))
		b.WriteString("\n")
		b.WriteString(answerStyle.Width(max(m.viewport.Width-2, 20)).Render(m.answer))
		b.WriteString("\n\n")
	}

	if len(m.insights) == 0 {
		b.WriteString(mutedStyle.Render("No patterns yet. Check in daily and complete tasks to give the oracle something to read."))
	}
	for _, in := range m.insights {
		b.WriteString(severityStyle(in.Severity).Render(in.Title))
		b.WriteString("\n")
		wrap := textStyle.Width(max(m.viewport.Width-2, 20))
		b.WriteString(wrap.Render(in.Evidence))
		b.WriteString("\n")
		b.WriteString(wrap.Render("→ " + in.Recommendation))
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
}

func severityStyle(s models.Severity) lipgloss.Style {
	switch s {
	case models.SeverityHigh:
		return highStyle
	case models.SeverityMedium:
		return mediumStyle
	default:
		return lowStyle
	}
}
