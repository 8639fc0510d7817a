package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/julianstephens/meterlog/internal/constants"
	"github.com/julianstephens/meterlog/internal/storage"
)

const timestampFormat = "20060102-150405"

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations for one backing file
type Manager struct {
	dataPath  string
	backupDir string
	ext       string
}

// NewManager creates a backup manager that keeps backups next to dataPath
func NewManager(dataPath string) *Manager {
	ext := filepath.Ext(dataPath)
	if ext == "" {
		ext = ".txt"
	}
	return &Manager{
		dataPath:  dataPath,
		backupDir: filepath.Join(filepath.Dir(dataPath), constants.BackupDirName),
		ext:       ext,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// CreateBackup copies the backing file into the backup directory and rotates
// old backups.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation keeps a pre-restore backup from evicting the one being restored
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	if _, err := os.Stat(m.dataPath); os.IsNotExist(err) {
		return "", fmt.Errorf("data file does not exist: %s", m.dataPath)
	}

	timestamp := time.Now().Format(timestampFormat)
	backupPath := filepath.Join(m.backupDir, constants.BackupFilePrefix+timestamp+m.ext)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			break
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		backupPath = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, timestamp, counter, m.ext))
	}

	if err := m.copyData(backupPath); err != nil {
		return "", fmt.Errorf("failed to back up data file: %w", err)
	}

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			return backupPath, fmt.Errorf("backup created but rotation failed: %w", err)
		}
	}

	return backupPath, nil
}

// copyData uses VACUUM INTO for SQLite files and a plain copy otherwise
func (m *Manager) copyData(destPath string) error {
	if !storage.IsSQLitePath(m.dataPath) {
		return copyFile(m.dataPath, destPath)
	}

	srcDB, err := storage.OpenReadOnly(m.dataPath)
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		srcDB.Close()
		return copyFile(m.dataPath, destPath)
	}
	return nil
}

// ListBackups returns all backups, newest first
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.ext) {
			continue
		}

		timestamp, ok := parseBackupTimestamp(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.ext))
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	// Newest first; same-second backups order by name so counters sort correctly
	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return counterOf(backups[i].Path) > counterOf(backups[j].Path)
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseBackupTimestamp accepts YYYYMMDD-HHMMSS with an optional -N counter
func parseBackupTimestamp(s string) (time.Time, bool) {
	if len(s) > len(timestampFormat) && s[len(timestampFormat)] == '-' {
		if _, err := strconv.Atoi(s[len(timestampFormat)+1:]); err != nil {
			return time.Time{}, false
		}
		s = s[:len(timestampFormat)]
	}
	ts, err := time.ParseInLocation(timestampFormat, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func counterOf(path string) int {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.TrimPrefix(name, constants.BackupFilePrefix)
	if len(name) <= len(timestampFormat)+1 {
		return 0
	}
	n, err := strconv.Atoi(name[len(timestampFormat)+1:])
	if err != nil {
		return 0
	}
	return n
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the backing file with a backup. The current file is
// backed up first and the replacement is a rename of a staged copy.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	if err := m.verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var preRestore string
	if _, err := os.Stat(m.dataPath); err == nil {
		preRestore, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to back up current data before restore: %w", err)
		}
	}

	tempPath := m.dataPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := atomic.ReplaceFile(tempPath, m.dataPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to restore data file: %w", err)
	}

	return preRestore, nil
}

// verifyBackup checks that every entry of a backup parses
func (m *Manager) verifyBackup(path string) error {
	report, err := storage.Verify(path)
	if err != nil {
		return err
	}
	return report.Err()
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
