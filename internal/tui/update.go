package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/meterlog/internal/app"
	errs "github.com/julianstephens/meterlog/internal/errors"
	"github.com/julianstephens/meterlog/internal/models"
	"github.com/julianstephens/meterlog/internal/tui/components/readingtable"
)

// chromeHeight is the vertical space taken by everything but the table
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetSize(msg.Width-docStyle.GetHorizontalFrameSize(), msg.Height-chromeHeight)
	}

	switch m.state {
	case StateAdd:
		return m, m.updateAddState(msg)
	case StateConfirmDelete:
		return m, m.updateConfirmDeleteState(msg)
	}
	return m.updateTableState(msg)
}

func (m Model) updateTableState(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.clearStatus()
			m.apply(m.dispatcher.Dispatch(app.RefreshCommand{}))
			return m, nil
		}

	case readingtable.AddReadingMsg:
		m.readingForm = newReadingFormModel(time.Now())
		m.form = NewReadingForm(m.readingForm)
		m.formError = ""
		m.state = StateAdd
		return m, m.form.Init()

	case readingtable.DeleteReadingMsg:
		m.pendingDelete = &msg
		m.state = StateConfirmDelete
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) updateAddState(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.closeForm()
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitReading(); err != nil {
			// Keep the user in the form with their input to correct it
			m.formError = errs.Format(err)
			m.form = NewReadingForm(m.readingForm)
			return tea.Batch(cmd, m.form.Init())
		}
		m.closeForm()
	case huh.StateAborted:
		m.closeForm()
	}
	return cmd
}

// submitReading dispatches the add. A rejected reading is returned so the
// form can stay open; any other outcome is applied to the table.
func (m *Model) submitReading() error {
	ev, err := m.dispatcher.Dispatch(app.AddCommand{Fields: m.readingForm.Fields()})

	var fe *models.FormatError
	if errors.As(err, &fe) {
		return err
	}

	m.apply(ev, err)
	if err == nil && len(ev.Readings) > 0 {
		m.setStatus(statusInfo, fmt.Sprintf("Added reading #%d", len(ev.Readings)))
	}
	return nil
}

func (m *Model) updateConfirmDeleteState(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		pending := m.pendingDelete
		m.pendingDelete = nil
		m.state = StateTable
		if pending == nil {
			return nil
		}
		ev, err := m.dispatcher.Dispatch(app.DeleteCommand{ID: pending.ID})
		if err != nil && !errors.Is(err, app.ErrNotPersisted) {
			m.setStatus(statusError, errs.Formatf("could not delete reading #%d: %v", pending.Index+1, err))
			return nil
		}
		m.apply(ev, err)
		if err == nil {
			m.setStatus(statusInfo, fmt.Sprintf("Deleted reading #%d", pending.Index+1))
		}
	case key.Matches(keyMsg, m.keys.Cancel):
		m.pendingDelete = nil
		m.state = StateTable
	case keyMsg.Type == tea.KeyCtrlC:
		m.quitting = true
		return tea.Quit
	}
	return nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.readingForm = nil
	m.formError = ""
	m.state = StateTable
}

// apply shows a controller result. A refresh event replaces the rows
// entirely; a not-persisted error still carries the new in-memory rows.
func (m *Model) apply(ev app.RefreshEvent, err error) {
	switch {
	case err == nil:
		m.table.SetReadings(ev.Readings)
	case errors.Is(err, app.ErrNotPersisted):
		m.table.SetReadings(ev.Readings)
		m.setStatus(statusWarning, errs.FormatWarning(err))
	default:
		m.setStatus(statusError, errs.Format(err))
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusKind = statusInfo
}
