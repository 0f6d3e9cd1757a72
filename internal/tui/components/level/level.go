package level

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/questlog/internal/levels"
	"github.com/julianstephens/questlog/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	gainStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)
)

// Model shows the level card and the most recent ledger entries.
type Model struct {
	progress progress.Model
	current  levels.Progress
	history  []models.XPTransaction
	width    int
}

func New(width int) Model {
	m := Model{progress: progress.New(progress.WithDefaultGradient())}
	m.SetWidth(width)
	return m
}

func (m *Model) SetWidth(width int) {
	m.width = width
	m.progress.Width = max(width-8, 10)
}

func (m *Model) SetData(current levels.Progress, history []models.XPTransaction) {
	m.current = current
	m.history = history
}

func (m Model) View() string {
	var card strings.Builder
	card.WriteString(titleStyle.Render(fmt.Sprintf("Level %d · %s", m.current.Index+1, m.current.Name)))
	card.WriteString("\n\n")
	card.WriteString(m.progress.ViewAs(m.current.Fraction()))
	card.WriteString("\n")
	if m.current.NextName == "" {
		card.WriteString(mutedStyle.Render(fmt.Sprintf("%d XP · max level", m.current.TotalXP)))
	} else {
		card.WriteString(mutedStyle.Render(fmt.Sprintf("%d XP · %d to %s", m.current.TotalXP, m.current.XPToNext, m.current.NextName)))
	}

	var b strings.Builder
	b.WriteString(cardStyle.Render(card.String()))
	b.WriteString("\n\n")
	if len(m.history) == 0 {
		b.WriteString(mutedStyle.Render("No XP yet. Complete a habit or task to get started."))
		return b.String()
	}

	b.WriteString(titleStyle.Render("Recent XP"))
	b.WriteString("\n")
	for _, tx := range m.history {
		amount := fmt.Sprintf("%+5d", tx.Amount)
		if tx.Amount < 0 {
			amount = lossStyle.Render(amount)
		} else {
			amount = gainStyle.Render(amount)
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", mutedStyle.Render(tx.CreatedAt.Local().Format("Jan 02 15:04")), amount, tx.Note)
	}
	return b.String()
}
