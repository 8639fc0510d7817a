package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/meterlog/internal/logger"
	"github.com/julianstephens/meterlog/internal/models"
	"github.com/julianstephens/meterlog/internal/storage"
)

var (
	// ErrNotPersisted marks a mutation that was applied in memory but could not
	// be written to the backing file.
	ErrNotPersisted = errors.New("changes were not saved to disk")

	ErrReadingNotFound = errors.New("reading not found")
)

// RefreshEvent carries a snapshot of the sequence for the display surface.
// The display replaces its rows entirely with Readings.
type RefreshEvent struct {
	Readings []models.Reading
}

// Controller owns the ordered in-memory reading sequence and mirrors every
// change to the store with a full rewrite. It is meant to be driven from a
// single goroutine.
type Controller struct {
	store    storage.Provider
	log      *log.Logger
	readings []models.Reading
}

func New(store storage.Provider, l *log.Logger) *Controller {
	return &Controller{
		store:    store,
		log:      logger.OrNop(l),
		readings: []models.Reading{},
	}
}

// Initialize loads the sequence from the store. A load failure is logged and
// leaves the controller empty.
func (c *Controller) Initialize() RefreshEvent {
	readings, err := c.store.Load()
	if err != nil {
		c.log.Error("Failed to load readings, starting empty", "path", c.store.Path(), "error", err)
		readings = nil
	}
	c.readings = append([]models.Reading{}, readings...)
	return c.Refresh()
}

// Refresh returns a copy of the current sequence in order.
func (c *Controller) Refresh() RefreshEvent {
	return RefreshEvent{Readings: append([]models.Reading{}, c.readings...)}
}

func (c *Controller) Len() int {
	return len(c.readings)
}

// Add validates the fields and appends the reading. On a *models.FormatError
// nothing changes and nothing is written.
func (c *Controller) Add(f models.Fields) (RefreshEvent, error) {
	reading, err := models.NewReading(f)
	if err != nil {
		c.log.Debug("Rejected reading", "error", err)
		return RefreshEvent{}, err
	}

	c.readings = append(c.readings, reading)
	c.log.Info("Added reading", "id", reading.ID, "line", reading.Line())
	return c.persist()
}

// Delete removes the reading with the given ID. An empty ID means nothing is
// selected and is a no-op.
func (c *Controller) Delete(id string) (RefreshEvent, error) {
	if id == "" {
		return c.Refresh(), nil
	}
	for i, r := range c.readings {
		if r.ID == id {
			return c.removeAt(i)
		}
	}
	return RefreshEvent{}, fmt.Errorf("%w: %s", ErrReadingNotFound, id)
}

// DeleteAt removes exactly the reading at the zero-based index.
func (c *Controller) DeleteAt(index int) (RefreshEvent, error) {
	if index < 0 || index >= len(c.readings) {
		return RefreshEvent{}, fmt.Errorf("%w: row %d out of range (1-%d)", ErrReadingNotFound, index+1, len(c.readings))
	}
	return c.removeAt(index)
}

func (c *Controller) removeAt(i int) (RefreshEvent, error) {
	removed := c.readings[i]
	c.readings = append(c.readings[:i:i], c.readings[i+1:]...)
	c.log.Info("Deleted reading", "id", removed.ID, "line", removed.Line())
	return c.persist()
}

// persist rewrites the store. On failure the in-memory sequence stays
// authoritative and the returned error wraps ErrNotPersisted.
func (c *Controller) persist() (RefreshEvent, error) {
	ev := c.Refresh()
	if err := c.store.Save(c.readings); err != nil {
		c.log.Error("Failed to save readings", "path", c.store.Path(), "error", err)
		return ev, fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}
	return ev, nil
}
