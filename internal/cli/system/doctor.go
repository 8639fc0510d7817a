package system

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/meterlog/internal/backup"
	"github.com/julianstephens/meterlog/internal/cli"
	"github.com/julianstephens/meterlog/internal/lockfile"
	"github.com/julianstephens/meterlog/internal/storage"
)

// backupStaleAfter is how old the newest backup may be before doctor warns
const backupStaleAfter = 7 * 24 * time.Hour

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	path := ctx.Store.Path()

	// Check 1: data file parses cleanly
	report, err := storage.Verify(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Printf("⊘ Data file: NOT CREATED (%s will be created on first save)\n", path)
	case err != nil:
		fmt.Printf("❌ Data file: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	case len(report.Bad) > 0:
		fmt.Printf("❌ Data file: FAIL\n")
		fmt.Printf("   %d valid readings, %d malformed entries will be skipped on load:\n", report.Readings, len(report.Bad))
		for _, b := range report.Bad {
			fmt.Printf("   %v\n", b)
		}
		hasError = true
	default:
		fmt.Printf("✓ Data file: OK (%d readings)\n", report.Readings)
	}

	// Check 2: session lock (warning only)
	if err := checkSessionLock(path); err != nil {
		fmt.Printf("⚠ Session lock: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Session lock: OK\n")
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(path); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSessionLock(path string) error {
	pid, err := lockfile.Holder(path)
	if err != nil {
		return err
	}
	if pid != 0 {
		return fmt.Errorf("another meterlog session (PID %d) has this file open; changes made here may be overwritten", pid)
	}
	return nil
}

func checkBackupsPresent(path string) error {
	mgr := backup.NewManager(path)
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'meterlog backup create'")
	}

	if age := time.Since(backups[0].Timestamp); age > backupStaleAfter {
		return fmt.Errorf("newest backup is %d days old", int(age.Hours()/24))
	}

	return nil
}
