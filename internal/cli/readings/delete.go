package readings

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/meterlog/internal/app"
	"github.com/julianstephens/meterlog/internal/cli"
	errs "github.com/julianstephens/meterlog/internal/errors"
)

type ReadingDeleteCmd struct {
	Row int `arg:"" help:"Row number of the reading to delete, as shown by 'list'."`
}

func (c *ReadingDeleteCmd) Run(ctx *cli.Context) error {
	if c.Row < 1 {
		return fmt.Errorf("row must be 1 or greater, got %d", c.Row)
	}

	before := ctx.Controller.Refresh()
	if c.Row > len(before.Readings) {
		return fmt.Errorf("%w: row %d out of range (1-%d)", app.ErrReadingNotFound, c.Row, len(before.Readings))
	}
	target := before.Readings[c.Row-1]

	_, err := ctx.Controller.Dispatch(app.DeleteCommand{Row: c.Row})
	if errors.Is(err, app.ErrNotPersisted) {
		fmt.Fprintln(os.Stderr, errs.FormatWarning(fmt.Errorf("reading removed in memory only: %w", err)))
		return err
	}
	if err != nil {
		return err
	}

	fmt.Printf("Deleted reading #%d: %s\n", c.Row, target)
	return nil
}
