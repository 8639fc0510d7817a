package readings

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/meterlog/internal/cli"
	"github.com/julianstephens/meterlog/internal/models"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

type ReadingListCmd struct {
	Raw bool `help:"Print readings in the backing file format."`
}

func (c *ReadingListCmd) Run(ctx *cli.Context) error {
	readings := ctx.Controller.Refresh().Readings
	if len(readings) == 0 {
		fmt.Println("No readings found")
		return nil
	}

	if c.Raw {
		for _, r := range readings {
			fmt.Println(r.Line())
		}
		return nil
	}

	fmt.Println(Table(readings))
	return nil
}

// Table renders readings with 1-based row numbers matching 'delete'.
func Table(readings []models.Reading) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "DATE", "VALUE", "FREQUENCY", "STATUS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for i, r := range readings {
		t.Row(append([]string{strconv.Itoa(i + 1)}, r.Row()...)...)
	}
	return t.Render()
}
