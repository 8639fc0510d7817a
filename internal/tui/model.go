package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/meterlog/internal/app"
	"github.com/julianstephens/meterlog/internal/models"
	"github.com/julianstephens/meterlog/internal/tui/components/readingtable"
)

type SessionState int

const (
	StateTable SessionState = iota
	StateAdd
	StateConfirmDelete
)

// Dispatcher is the controller surface the TUI drives.
type Dispatcher interface {
	Dispatch(cmd app.Command) (app.RefreshEvent, error)
}

type ReadingFormModel struct {
	Name      string
	Date      string
	Value     string
	Frequency models.Frequency
	Status    bool
}

type Options struct {
	// Path is shown in the title bar
	Path string
	// Warning is shown until the session ends, e.g. another session holds the lock
	Warning string
}

type Model struct {
	dispatcher    Dispatcher
	state         SessionState
	keys          KeyMap
	help          help.Model
	table         readingtable.Model
	form          *huh.Form
	readingForm   *ReadingFormModel
	pendingDelete *readingtable.DeleteReadingMsg
	path          string
	warning       string
	status        string
	statusKind    statusKind
	formError     string
	quitting      bool
	width         int
	height        int
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

func NewModel(d Dispatcher, opts Options) Model {
	m := Model{
		dispatcher: d,
		state:      StateTable,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		table:      readingtable.New(nil, 0, 0),
		path:       opts.Path,
		warning:    opts.Warning,
	}
	m.apply(d.Dispatch(app.RefreshCommand{}))
	return m
}

func newReadingFormModel(now time.Time) *ReadingFormModel {
	return &ReadingFormModel{
		Date:      models.FormatDate(now),
		Frequency: models.FrequencyMonthly,
		Status:    true,
	}
}

func (f *ReadingFormModel) Fields() models.Fields {
	return models.Fields{
		Name:      f.Name,
		Date:      f.Date,
		Value:     f.Value,
		Frequency: string(f.Frequency),
		Status:    models.FormatStatus(f.Status),
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateAdd:
		return nil
	}
	rows := m.table.Keys()
	return []key.Binding{rows.Add, rows.Delete, m.keys.Refresh, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state != StateTable {
		return [][]key.Binding{m.ShortHelp()}
	}
	rows := m.table.Keys()
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{rows.Add, rows.Delete, m.keys.Refresh},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	return m.table.Init()
}
