package storage

import "github.com/julianstephens/meterlog/internal/models"

// Provider is the durable mirror of the in-memory reading sequence.
//
// Load returns every reading it can parse, in stored order. A missing backing
// file is not an error. Save replaces the entire backing content with the
// given sequence.
type Provider interface {
	Load() ([]models.Reading, error)
	Save([]models.Reading) error
	Close() error

	// Path returns the location of the backing file.
	Path() string
}
