package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/meterlog/internal/models"
	"github.com/julianstephens/meterlog/internal/storage"
)

// fakeStore records saves and can be told to fail.
type fakeStore struct {
	loaded  []models.Reading
	loadErr error
	saveErr error
	saves   int
	saved   []models.Reading
}

func (s *fakeStore) Load() ([]models.Reading, error) { return s.loaded, s.loadErr }
func (s *fakeStore) Close() error                    { return nil }
func (s *fakeStore) Path() string                    { return "fake.txt" }

func (s *fakeStore) Save(readings []models.Reading) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append([]models.Reading{}, readings...)
	return nil
}

func electricity() models.Fields {
	return models.Fields{
		Name:      "Electricity",
		Date:      "2025.01.15",
		Value:     "42.5",
		Frequency: "monthly",
		Status:    "true",
	}
}

func newTextController(t *testing.T) (*Controller, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.txt")
	c := New(storage.NewTextStore(path, nil), nil)
	c.Initialize()
	return c, path
}

func reload(t *testing.T, path string) []models.Reading {
	t.Helper()
	readings, err := storage.NewTextStore(path, nil).Load()
	require.NoError(t, err)
	return readings
}

func TestInitialize_LoadFailureStartsEmpty(t *testing.T) {
	var logBuf bytes.Buffer
	store := &fakeStore{loadErr: errors.New("disk on fire")}
	c := New(store, log.New(&logBuf))

	ev := c.Initialize()

	assert.Empty(t, ev.Readings)
	assert.Equal(t, 0, c.Len())
	assert.Contains(t, logBuf.String(), "disk on fire")
}

func TestAdd_SaveReloadScenario(t *testing.T) {
	c, path := newTextController(t)

	ev, err := c.Add(electricity())
	require.NoError(t, err)
	require.Len(t, ev.Readings, 1)

	got := reload(t, path)
	require.Len(t, got, 1)
	assert.True(t, ev.Readings[0].Equal(got[0]))
	assert.Equal(t, "Electricity", got[0].Name)
	assert.Equal(t, 42.5, got[0].Value)
	assert.Equal(t, models.FrequencyMonthly, got[0].Frequency)
	assert.True(t, got[0].Status)
}

func TestAdd_AppendsInInsertionOrder(t *testing.T) {
	c, path := newTextController(t)

	names := []string{"Gas", "Water", "Heat"}
	for _, n := range names {
		f := electricity()
		f.Name = n
		_, err := c.Add(f)
		require.NoError(t, err)
	}

	ev := c.Refresh()
	got := reload(t, path)
	require.Len(t, got, 3)
	for i, n := range names {
		assert.Equal(t, n, ev.Readings[i].Name)
		assert.True(t, ev.Readings[i].Equal(got[i]))
	}
}

func TestAdd_InvalidFieldsLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*models.Fields)
	}{
		{"bad date", func(f *models.Fields) { f.Date = "2025.02.30" }},
		{"non-numeric value", func(f *models.Fields) { f.Value = "forty" }},
		{"unknown frequency", func(f *models.Fields) { f.Frequency = "yearly" }},
		{"unknown status", func(f *models.Fields) { f.Status = "maybe" }},
		{"empty name", func(f *models.Fields) { f.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			c := New(store, nil)
			c.Initialize()
			_, err := c.Add(electricity())
			require.NoError(t, err)

			f := electricity()
			tt.mod(&f)
			_, err = c.Add(f)

			var fe *models.FormatError
			require.True(t, errors.As(err, &fe), "expected FormatError, got %v", err)
			assert.Equal(t, 1, c.Len())
			assert.Equal(t, 1, store.saves, "a rejected add must not rewrite the store")
		})
	}
}

func TestAdd_SaveFailureKeepsReadingAndWarns(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("read-only file system")}
	c := New(store, nil)
	c.Initialize()

	ev, err := c.Add(electricity())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotPersisted))
	assert.Contains(t, err.Error(), "read-only file system")
	assert.Len(t, ev.Readings, 1)
	assert.Equal(t, 1, c.Len())
}

func TestDeleteAt_RemovesExactlyOneOfIdenticalReadings(t *testing.T) {
	c, path := newTextController(t)
	for i := 0; i < 2; i++ {
		_, err := c.Add(electricity())
		require.NoError(t, err)
	}

	ev, err := c.DeleteAt(0)

	require.NoError(t, err)
	assert.Len(t, ev.Readings, 1)
	assert.Len(t, reload(t, path), 1)
}

func TestDelete_FirstOfTwoScenario(t *testing.T) {
	c, path := newTextController(t)
	_, err := c.Add(electricity())
	require.NoError(t, err)
	second := models.Fields{Name: "Cold water", Date: "2025.02.01", Value: "12.75", Frequency: "weekly", Status: "false"}
	ev, err := c.Add(second)
	require.NoError(t, err)

	first := ev.Readings[0]
	_, err = c.Delete(first.ID)
	require.NoError(t, err)

	got := reload(t, path)
	require.Len(t, got, 1)
	want, err := models.NewReading(second)
	require.NoError(t, err)
	assert.True(t, want.Equal(got[0]))
}

func TestDelete_ByIDKeepsFieldIdenticalTwin(t *testing.T) {
	c, _ := newTextController(t)
	_, err := c.Add(electricity())
	require.NoError(t, err)
	ev, err := c.Add(electricity())
	require.NoError(t, err)

	twin := ev.Readings[1]
	ev, err = c.Delete(ev.Readings[0].ID)

	require.NoError(t, err)
	require.Len(t, ev.Readings, 1)
	assert.Equal(t, twin.ID, ev.Readings[0].ID)
}

func TestDelete_NoSelectionIsNoop(t *testing.T) {
	store := &fakeStore{}
	c := New(store, nil)
	c.Initialize()
	_, err := c.Add(electricity())
	require.NoError(t, err)

	ev, err := c.Delete("")

	require.NoError(t, err)
	assert.Len(t, ev.Readings, 1)
	assert.Equal(t, 1, store.saves)
}

func TestDelete_UnknownID(t *testing.T) {
	store := &fakeStore{}
	c := New(store, nil)
	c.Initialize()

	_, err := c.Delete("does-not-exist")

	assert.True(t, errors.Is(err, ErrReadingNotFound))
	assert.Equal(t, 0, store.saves)
}

func TestDeleteAt_OutOfRange(t *testing.T) {
	c := New(&fakeStore{}, nil)
	c.Initialize()

	_, err := c.DeleteAt(0)
	assert.True(t, errors.Is(err, ErrReadingNotFound))

	_, err = c.DeleteAt(-1)
	assert.True(t, errors.Is(err, ErrReadingNotFound))
}

func TestRefresh_ReturnsCopy(t *testing.T) {
	c := New(&fakeStore{}, nil)
	c.Initialize()
	_, err := c.Add(electricity())
	require.NoError(t, err)

	ev := c.Refresh()
	ev.Readings[0].Name = "mutated"

	assert.Equal(t, "Electricity", c.Refresh().Readings[0].Name)
}

func TestDispatch(t *testing.T) {
	store := &fakeStore{}
	c := New(store, nil)
	c.Initialize()

	ev, err := c.Dispatch(AddCommand{Fields: electricity()})
	require.NoError(t, err)
	require.Len(t, ev.Readings, 1)

	ev, err = c.Dispatch(DeleteCommand{})
	require.NoError(t, err)
	assert.Len(t, ev.Readings, 1, "empty delete is a no-op")

	ev, err = c.Dispatch(RefreshCommand{})
	require.NoError(t, err)
	assert.Len(t, ev.Readings, 1)

	ev, err = c.Dispatch(DeleteCommand{Row: 1})
	require.NoError(t, err)
	assert.Empty(t, ev.Readings)
	assert.Empty(t, store.saved)
}

func TestInitialize_AgainstExistingFile(t *testing.T) {
	c, path := newTextController(t)
	_, err := c.Add(electricity())
	require.NoError(t, err)

	restarted := New(storage.NewTextStore(path, nil), nil)
	ev := restarted.Initialize()

	require.Len(t, ev.Readings, 1)
	assert.True(t, c.Refresh().Readings[0].Equal(ev.Readings[0]))
}

func TestAdd_AfterOversizedLineKeepsOtherReadings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.txt")
	content := `"Gas" 2025.01.15 3 daily true` + "\n" +
		`"` + strings.Repeat("n", 2<<20) + `" 2025.01.15 1 daily` + "\n" +
		`"Water" 2025.01.16 7.25 weekly false` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	c := New(storage.NewTextStore(path, nil), nil)
	ev := c.Initialize()
	require.Len(t, ev.Readings, 2)

	_, err := c.Add(models.Fields{Name: "Heat", Date: "2025.02.01", Value: "3", Frequency: "monthly", Status: "true"})
	require.NoError(t, err)

	got := reload(t, path)
	require.Len(t, got, 3)
	assert.Equal(t, "Gas", got[0].Name)
	assert.Equal(t, "Water", got[1].Name)
	assert.Equal(t, "Heat", got[2].Name)
}
