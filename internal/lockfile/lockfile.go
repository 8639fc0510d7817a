// Package lockfile records which meterlog process has a data file open.
// The lock is advisory: a second session is warned, never refused.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/meterlog/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Lock is a session lock owned by the current process.
type Lock struct {
	path string
	pid  int
}

// PathFor returns the lock file path for a data file.
func PathFor(dataPath string) string {
	return dataPath + constants.LockFileSuffix
}

// Holder returns the PID of another live meterlog process holding the lock
// on dataPath, or 0 when the lock is free, stale or ours.
func Holder(dataPath string) (int, error) {
	data, err := os.ReadFile(PathFor(dataPath))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		// Unreadable content is treated as stale
		return 0, nil
	}
	if pid == getpidFunc() {
		return 0, nil
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, nil
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return 0, nil
	}
	return pid, nil
}

// Acquire writes the current PID to the lock file. It returns the PID of a
// live holder it displaced, so the caller can warn about lost updates.
func Acquire(dataPath string) (*Lock, int, error) {
	holder, err := Holder(dataPath)
	if err != nil {
		return nil, 0, err
	}

	pid := getpidFunc()
	path := PathFor(dataPath)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, holder, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0600); err != nil {
		return nil, holder, fmt.Errorf("failed to write lock file: %w", err)
	}
	return &Lock{path: path, pid: pid}, holder, nil
}

// Release removes the lock file if it still names this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lock file: %w", err)
	}
	if strings.TrimSpace(string(data)) != strconv.Itoa(l.pid) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
