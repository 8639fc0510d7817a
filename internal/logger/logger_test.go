package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/meterlog/internal/constants"
)

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "config")

	l, err := New(Config{Debug: false, Dir: dir})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	if l == nil {
		t.Fatal("Logger is nil after initialization")
	}

	logDir := filepath.Join(dir, constants.LogDirName)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	// Warnings and errors reach the file in normal mode
	l.Warn("Test warning message")
	l.Error("Test error message")

	data, err := os.ReadFile(filepath.Join(logDir, constants.LogFileName))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("Log file is empty after writing warnings")
	}
}

func TestNewDebugMode(t *testing.T) {
	l, err := New(Config{Debug: true, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if l == nil {
		t.Fatal("Logger is nil after initialization")
	}

	l.Debug("Test debug message in debug mode")
	l.Info("Test info message in debug mode")
}

func TestNewWithUncreatableDirectory(t *testing.T) {
	// A regular file cannot hold a logs/ subdirectory
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(Config{Dir: file}); err == nil {
		t.Error("expected error when log directory cannot be created")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}

	l := Nop()
	if OrNop(l) != l {
		t.Error("OrNop should return the given logger")
	}

	// Must not panic
	OrNop(nil).Error("discarded")
}
