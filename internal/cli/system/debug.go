package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/meterlog/internal/cli"
	"github.com/julianstephens/meterlog/internal/lockfile"
	"github.com/julianstephens/meterlog/internal/models"
)

type DebugCmd struct {
	Path *DebugPathCmd `cmd:"" help:"Show data file, lock file and backup paths."`
	Dump *DebugDumpCmd `cmd:"" help:"Dump readings as JSON."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.Path()

	// Output in machine-readable format
	output := map[string]string{
		"path": path,
		"lock": lockfile.PathFor(path),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpCmd struct{}

type dumpedReading struct {
	Row       int    `json:"row"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Value     string `json:"value"`
	Frequency string `json:"frequency"`
	Status    bool   `json:"status"`
}

func (cmd *DebugDumpCmd) Run(ctx *cli.Context) error {
	jsonBytes, err := json.MarshalIndent(dump(ctx.Controller.Refresh().Readings), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal readings: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

func dump(readings []models.Reading) []dumpedReading {
	out := make([]dumpedReading, 0, len(readings))
	for i, r := range readings {
		f := r.Fields()
		out = append(out, dumpedReading{
			Row:       i + 1,
			ID:        r.ID,
			Name:      f.Name,
			Date:      f.Date,
			Value:     f.Value,
			Frequency: f.Frequency,
			Status:    r.Status,
		})
	}
	return out
}
