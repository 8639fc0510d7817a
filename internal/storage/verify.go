package storage

import (
	"fmt"
	"os"
)

// Report summarizes a read-only pass over a backing file.
type Report struct {
	Readings int
	Bad      []LineError
}

// Verify parses the file at path with the backend its extension selects and
// reports how many readings are valid and which lines or rows are not. It
// never creates or modifies the file.
func Verify(path string) (Report, error) {
	if _, err := os.Stat(path); err != nil {
		return Report{}, err
	}

	if IsSQLitePath(path) {
		return verifySQLite(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()

	readings, bad, err := Decode(f)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Report{Readings: len(readings), Bad: bad}, nil
}

func verifySQLite(path string) (Report, error) {
	db, err := OpenReadOnly(path)
	if err != nil {
		return Report{}, err
	}
	defer db.Close()

	rows, err := db.Query(selectReadings)
	if err != nil {
		return Report{}, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings, bad, err := scanReadings(rows)
	if err != nil {
		return Report{}, err
	}
	return Report{Readings: len(readings), Bad: bad}, nil
}

// Err returns nil for a clean report and a summary error otherwise.
func (r Report) Err() error {
	if len(r.Bad) == 0 {
		return nil
	}
	return fmt.Errorf("%d malformed entries, first at %w", len(r.Bad), r.Bad[0])
}
