package storage

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// New picks a backend by file extension: .db and .sqlite use SQLite, anything
// else is the line-oriented text format.
func New(path string, l *log.Logger) Provider {
	if IsSQLitePath(path) {
		return NewSQLiteStore(path, l)
	}
	return NewTextStore(path, l)
}

func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
