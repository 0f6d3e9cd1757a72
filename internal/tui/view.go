package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "  " + inactiveTabStyle.Render(m.date)

	var body string
	switch {
	case m.form != nil:
		body = m.form.View()
	case m.tab == TabToday:
		body = m.todayModel.View()
	case m.tab == TabProgress:
		body = m.levelModel.View()
	case m.tab == TabOracle:
		body = m.oracleModel.View()
	}

	var status string
	if m.err != nil {
		status = errorStyle.Render("Error: " + m.err.Error())
	} else if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	parts := []string{header, "", body}
	if status != "" {
		parts = append(parts, "", status)
	}
	parts = append(parts, "", m.help.View(m))
	return docStyle.Render(strings.Join(parts, "\n"))
}
