package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/meterlog/internal/logger"
	"github.com/julianstephens/meterlog/internal/models"
)

const createReadingsTable = `
	CREATE TABLE IF NOT EXISTS readings (
		position  INTEGER PRIMARY KEY,
		name      TEXT NOT NULL,
		date      TEXT NOT NULL,
		value     TEXT NOT NULL,
		frequency TEXT NOT NULL,
		status    TEXT NOT NULL
	)
`

// OpenReadOnly opens an existing SQLite file without write access.
func OpenReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// SQLiteStore keeps readings in a single SQLite table ordered by position.
// Columns hold the canonical field text so rows go through the same
// validation as lines of the text format.
type SQLiteStore struct {
	path        string
	db          *sql.DB
	schemaReady bool
	log         *log.Logger
}

func NewSQLiteStore(path string, l *log.Logger) *SQLiteStore {
	return &SQLiteStore{
		path: path,
		log:  logger.OrNop(l),
	}
}

// open lazily opens the database. The directory is only created when create
// is set; the table is never created here, see ensureSchema.
func (s *SQLiteStore) open(create bool) error {
	if s.db != nil {
		return nil
	}

	if create {
		if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) ensureSchema() error {
	if s.schemaReady {
		return nil
	}
	if _, err := s.db.Exec(createReadingsTable); err != nil {
		return fmt.Errorf("failed to create readings table: %w", err)
	}
	s.schemaReady = true
	return nil
}

func (s *SQLiteStore) hasReadingsTable() (bool, error) {
	var n int
	err := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'readings'").Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect database: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Load() ([]models.Reading, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		s.log.Debug("Database not found, starting empty", "path", s.path)
		return []models.Reading{}, nil
	}
	if err := s.open(false); err != nil {
		return nil, err
	}
	ok, err := s.hasReadingsTable()
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Debug("Database has no readings table, starting empty", "path", s.path)
		return []models.Reading{}, nil
	}

	rows, err := s.db.Query(selectReadings)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings, bad, err := scanReadings(rows)
	if err != nil {
		return nil, err
	}
	for _, b := range bad {
		s.log.Error("Skipping malformed row", "path", s.path, "position", b.Line, "error", b.Err)
	}

	s.log.Debug("Loaded readings", "path", s.path, "count", len(readings))
	return readings, nil
}

const selectReadings = "SELECT position, name, date, value, frequency, status FROM readings ORDER BY position"

// scanReadings validates each row like a line of the text format. Rows that
// fail are returned in bad, keyed by position.
func scanReadings(rows *sql.Rows) ([]models.Reading, []LineError, error) {
	readings := []models.Reading{}
	var bad []LineError
	for rows.Next() {
		var position int
		var f models.Fields
		if err := rows.Scan(&position, &f.Name, &f.Date, &f.Value, &f.Frequency, &f.Status); err != nil {
			return nil, nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		reading, err := models.NewReading(f)
		if err != nil {
			bad = append(bad, LineError{Line: position, Text: strings.Join([]string{f.Name, f.Date, f.Value, f.Frequency, f.Status}, " "), Err: err})
			continue
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate readings: %w", err)
	}
	return readings, bad, nil
}

// Save replaces every row in a single transaction.
func (s *SQLiteStore) Save(readings []models.Reading) error {
	if err := s.open(true); err != nil {
		return err
	}
	if err := s.ensureSchema(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM readings"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear readings: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO readings (position, name, date, value, frequency, status) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range readings {
		f := r.Fields()
		if _, err := stmt.Exec(i, f.Name, f.Date, f.Value, f.Frequency, f.Status); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert reading %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit readings: %w", err)
	}

	s.log.Debug("Saved readings", "path", s.path, "count", len(readings))
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		s.schemaReady = false
		return err
	}
	return nil
}

func (s *SQLiteStore) Path() string {
	return s.path
}
