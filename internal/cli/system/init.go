package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/meterlog/internal/cli"
	"github.com/julianstephens/meterlog/internal/models"
	"github.com/julianstephens/meterlog/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing data file before initialization."`
	Source string `help:"Data file to copy readings from (text or SQLite)." type:"path"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	dataPath := ctx.Store.Path()

	// Don't delete if it's the source (user error protection)
	if c.Source != "" && samePath(c.Source, dataPath) {
		return fmt.Errorf("source and destination are the same file: %s", dataPath)
	}

	if _, err := os.Stat(dataPath); err == nil {
		if !c.Force {
			return fmt.Errorf("data file already exists at %s (use --force to replace it)", dataPath)
		}
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing data file: %w", err)
		}
		if err := os.Remove(dataPath); err != nil {
			return fmt.Errorf("failed to delete existing data file: %w", err)
		}
		fmt.Printf("Deleted existing data file at: %s\n", dataPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing data file: %w", err)
	}

	var readings []models.Reading
	if c.Source != "" {
		fmt.Printf("Copying readings from: %s\n", c.Source)
		var err error
		readings, err = loadSource(ctx, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	if err := ctx.Store.Save(readings); err != nil {
		return fmt.Errorf("failed to initialize data file: %w", err)
	}
	ctx.Controller.Initialize()

	fmt.Printf("Initialized meterlog storage at: %s\n", dataPath)
	if c.Source != "" {
		fmt.Printf("    Copied %d readings\n", len(readings))
	}
	return nil
}

func loadSource(ctx *cli.Context, path string) ([]models.Reading, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	source := storage.New(path, ctx.Logger)
	defer source.Close()

	readings, err := source.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	return readings, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
