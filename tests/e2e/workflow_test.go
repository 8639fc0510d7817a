package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestEndToEndWorkflow drives a built meterlog binary through add, list,
// delete, backup and doctor against an isolated data file.
func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("METERLOG_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "meterlog")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it first with: go build -o bin/meterlog ./cmd/meterlog", cliPath)
	}

	tempDir := t.TempDir()
	dataFile := filepath.Join(tempDir, "meterlog", "readings.txt")
	t.Logf("Running test in temp dir: %s", tempDir)

	// Set environment variables for isolation
	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "METERLOG_") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv, fmt.Sprintf("HOME=%s", tempDir))
	cleanEnv = append(cleanEnv, fmt.Sprintf("METERLOG_FILE=%s", dataFile))

	// 2. Initialize
	t.Log("Initializing data file...")
	runCmd(t, cliPath, cleanEnv, tempDir, "init")

	// 3. Add readings
	t.Log("Adding readings...")
	runCmd(t, cliPath, cleanEnv, tempDir, "add", "Electricity", "--value", "42.5", "--date", "2025.01.15", "--frequency", "monthly", "--status", "true")
	runCmd(t, cliPath, cleanEnv, tempDir, "add", "Cold water", "--value", "12.75", "--date", "2025.02.01", "--frequency", "weekly", "--status", "false")

	data := readFile(t, dataFile)
	want := "\"Electricity\" 2025.01.15 42.5 monthly true\n\"Cold water\" 2025.02.01 12.75 weekly false\n"
	if data != want {
		t.Fatalf("unexpected data file:\n got: %q\nwant: %q", data, want)
	}

	// 4. Invalid input is rejected without touching the file
	t.Log("Adding an invalid reading...")
	out, err := runCmdErr(cliPath, cleanEnv, tempDir, "add", "Gas", "--value", "1", "--date", "2025.02.30")
	if err == nil {
		t.Fatalf("expected invalid date to fail, output: %s", out)
	}
	if !strings.Contains(out, "Error:") {
		t.Errorf("expected an Error: prefix, got: %s", out)
	}
	if got := readFile(t, dataFile); got != want {
		t.Fatalf("data file changed after rejected add: %q", got)
	}

	// 5. List shows both rows
	out = runCmd(t, cliPath, cleanEnv, tempDir, "list")
	for _, s := range []string{"Electricity", "Cold water", "faulty"} {
		if !strings.Contains(out, s) {
			t.Errorf("list output missing %q:\n%s", s, out)
		}
	}

	// 6. Backup, then delete the first row
	t.Log("Creating backup...")
	runCmd(t, cliPath, cleanEnv, tempDir, "backup", "create")

	t.Log("Deleting first reading...")
	runCmd(t, cliPath, cleanEnv, tempDir, "delete", "1")
	if got := readFile(t, dataFile); got != "\"Cold water\" 2025.02.01 12.75 weekly false\n" {
		t.Fatalf("unexpected data file after delete: %q", got)
	}

	// 7. Doctor passes
	t.Log("Running doctor...")
	runCmd(t, cliPath, cleanEnv, tempDir, "doctor")
}

func runCmd(t *testing.T, path string, env []string, dir string, args ...string) string {
	t.Helper()
	out, err := runCmdErr(path, env, dir, args...)
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return out
}

func runCmdErr(path string, env []string, dir string, args ...string) (string, error) {
	cmd := exec.Command(path, args...)
	cmd.Env = env
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
