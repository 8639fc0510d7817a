package errors

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"format nil", Format(nil), ""},
		{"format", Format(cause), "Error: disk full"},
		{"format wrapped", Format(fmt.Errorf("failed to write readings file: %w", cause)), "Error: failed to write readings file: disk full"},
		{"formatf", Formatf("could not delete reading #%d: %v", 2, cause), "Error: could not delete reading #2: disk full"},
		{"formatf without args", Formatf("nothing to delete"), "Error: nothing to delete"},
		{"warning nil", FormatWarning(nil), ""},
		{"warning", FormatWarning(cause), "⚠ Warning: disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func captureExit(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	var buf bytes.Buffer
	code := -1
	oldStderr, oldExit := stderr, exit
	stderr = &buf
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		stderr, exit = oldStderr, oldExit
	})
	return &buf, &code
}

func TestFatal(t *testing.T) {
	out, code := captureExit(t)
	var logBuf bytes.Buffer

	Fatal(log.New(&logBuf), errors.New("reading not found"))

	assert.Equal(t, 1, *code)
	assert.Equal(t, "Error: reading not found\n", out.String())
	assert.Contains(t, logBuf.String(), "Command execution failed")
}

func TestFatal_NilError(t *testing.T) {
	out, code := captureExit(t)

	Fatal(nil, nil)

	assert.Equal(t, -1, *code)
	assert.Empty(t, out.String())
}
