package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/meterlog/internal/logger"
)

// Swapped in tests.
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Format renders err with the "Error: " prefix shared by the CLI and the TUI.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf is Format for a message built in place.
func Formatf(format string, args ...any) string {
	return "Error: " + fmt.Sprintf(format, args...)
}

// FormatWarning renders a failure the user can recover from, such as a
// change kept in memory that did not reach the data file.
func FormatWarning(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("⚠ Warning: %v", err)
}

// Fatal logs err, prints it to stderr and exits with status 1. A nil err is ignored.
func Fatal(l *log.Logger, err error) {
	if err == nil {
		return
	}
	logger.OrNop(l).Error("Command execution failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}
