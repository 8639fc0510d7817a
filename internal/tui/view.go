package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/meterlog/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateAdd:
		content = m.viewForm()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.viewTable()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTitle(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTitle() string {
	count := fmt.Sprintf("%d readings", m.table.Len())
	if m.table.Len() == 1 {
		count = "1 reading"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render(constants.AppName),
		pathStyle.Render(m.path),
		pathStyle.Render(count),
	)
}

func (m Model) viewTable() string {
	if m.table.Len() == 0 {
		return "No readings yet. Press a to add one."
	}
	return m.table.View()
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	if m.formError == "" {
		return m.form.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.form.View(),
		"",
		dangerStyle.Render(m.formError),
	)
}

func (m Model) viewConfirmDelete() string {
	if m.pendingDelete == nil {
		return ""
	}
	line := ""
	if r, ok := m.table.At(m.pendingDelete.Index); ok {
		line = r.Line()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		dangerStyle.Render(fmt.Sprintf("Delete reading #%d?", m.pendingDelete.Index+1)),
		"",
		"  "+line,
		"",
		"(y/n)",
	)
}

func (m Model) viewStatus() string {
	var lines []string
	if m.warning != "" {
		lines = append(lines, warningStyle.Render(m.warning))
	}
	switch {
	case m.status == "":
	case m.statusKind == statusError:
		lines = append(lines, dangerStyle.Render(m.status))
	case m.statusKind == statusWarning:
		lines = append(lines, warningStyle.Render(m.status))
	default:
		lines = append(lines, infoStyle.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
