package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/meterlog/internal/cli"
	"github.com/julianstephens/meterlog/internal/lockfile"
	"github.com/julianstephens/meterlog/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.Path()

	lock, holder, err := lockfile.Acquire(path)
	if err != nil {
		ctx.Logger.Warn("Failed to write session lock", "path", lockfile.PathFor(path), "error", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			ctx.Logger.Warn("Failed to release session lock", "error", err)
		}
	}()

	var warning string
	if holder != 0 {
		warning = fmt.Sprintf("⚠ Another meterlog session (PID %d) has this file open. The last one to save wins.", holder)
		ctx.Logger.Warn("Data file already open in another session", "path", path, "pid", holder)
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Controller, tui.Options{Path: path, Warning: warning}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
