package readingtable

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/meterlog/internal/models"
)

type AddReadingMsg struct{}

// DeleteReadingMsg asks for the reading at Index (zero-based) to be removed.
// ID identifies the exact reading so a stale index cannot hit a different row.
type DeleteReadingMsg struct {
	Index int
	ID    string
}

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add reading"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete reading"),
		),
	}
}

const (
	rowNumWidth   = 4
	dateWidth     = 10
	valueWidth    = 12
	freqWidth     = 10
	statusWidth   = 8
	minNameWidth  = 12
	columnPadding = 2 * 6
)

type Model struct {
	table    table.Model
	keys     KeyMap
	readings []models.Reading
}

func New(readings []models.Reading, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(max(height, 1)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := Model{
		table: t,
		keys:  DefaultKeyMap(),
	}
	m.SetReadings(readings)
	return m
}

func columns(width int) []table.Column {
	name := width - rowNumWidth - dateWidth - valueWidth - freqWidth - statusWidth - columnPadding
	if name < minNameWidth {
		name = minNameWidth
	}
	return []table.Column{
		{Title: "#", Width: rowNumWidth},
		{Title: "Name", Width: name},
		{Title: "Date", Width: dateWidth},
		{Title: "Value", Width: valueWidth},
		{Title: "Frequency", Width: freqWidth},
		{Title: "Status", Width: statusWidth},
	}
}

// SetReadings replaces every row. The cursor stays on the same index when it
// still exists and moves to the last row otherwise.
func (m *Model) SetReadings(readings []models.Reading) {
	m.readings = append([]models.Reading{}, readings...)

	rows := make([]table.Row, len(readings))
	for i, r := range readings {
		rows[i] = append(table.Row{strconv.Itoa(i + 1)}, r.Row()...)
	}
	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Selected returns the reading under the cursor.
func (m Model) Selected() (int, models.Reading, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.readings) {
		return -1, models.Reading{}, false
	}
	return i, m.readings[i], true
}

// At returns the reading displayed at index i.
func (m Model) At(i int) (models.Reading, bool) {
	if i < 0 || i >= len(m.readings) {
		return models.Reading{}, false
	}
	return m.readings[i], true
}

func (m Model) Len() int {
	return len(m.readings)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddReadingMsg{} }
		case key.Matches(msg, m.keys.Delete):
			// Nothing selected: deleting is a no-op
			if i, r, ok := m.Selected(); ok {
				return m, func() tea.Msg {
					return DeleteReadingMsg{Index: i, ID: r.ID}
				}
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(max(height, 1))
}

func (m Model) Keys() KeyMap {
	return m.keys
}
