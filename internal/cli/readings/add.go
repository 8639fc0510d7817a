package readings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/meterlog/internal/app"
	"github.com/julianstephens/meterlog/internal/cli"
	errs "github.com/julianstephens/meterlog/internal/errors"
	"github.com/julianstephens/meterlog/internal/models"
)

type ReadingAddCmd struct {
	Name      string `arg:"" help:"Meter name."`
	Value     string `help:"Meter value." required:""`
	Date      string `help:"Reading date (YYYY.MM.DD or 'today')." default:"today"`
	Frequency string `help:"Reading frequency (daily, weekly, monthly, always)." default:"monthly"`
	Status    string `help:"Whether the meter works (true/false)." default:"true"`
}

func (c *ReadingAddCmd) Run(ctx *cli.Context) error {
	date := c.Date
	if strings.EqualFold(date, "today") {
		date = models.FormatDate(time.Now())
	}

	ev, err := ctx.Controller.Dispatch(app.AddCommand{Fields: models.Fields{
		Name:      c.Name,
		Date:      date,
		Value:     c.Value,
		Frequency: c.Frequency,
		Status:    c.Status,
	}})
	if errors.Is(err, app.ErrNotPersisted) {
		fmt.Fprintln(os.Stderr, errs.FormatWarning(fmt.Errorf("reading kept in memory only: %w", err)))
		return err
	}
	if err != nil {
		return err
	}

	added := ev.Readings[len(ev.Readings)-1]
	fmt.Printf("✓ Added reading #%d: %s\n", len(ev.Readings), added)
	return nil
}
