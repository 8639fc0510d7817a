package app

import (
	"fmt"

	"github.com/julianstephens/meterlog/internal/models"
)

// Command is a request from the presentation surface.
type Command interface {
	isCommand()
}

// AddCommand asks the controller to construct and append a reading.
type AddCommand struct {
	Fields models.Fields
}

// DeleteCommand asks the controller to remove a displayed row, identified by
// ID or by its 1-based Row. ID wins when both are set; a zero command means
// nothing is selected and is a no-op.
type DeleteCommand struct {
	ID  string
	Row int
}

// RefreshCommand asks for the current sequence without changing it.
type RefreshCommand struct{}

func (AddCommand) isCommand()     {}
func (DeleteCommand) isCommand()  {}
func (RefreshCommand) isCommand() {}

// Dispatch routes a command to the matching operation.
func (c *Controller) Dispatch(cmd Command) (RefreshEvent, error) {
	switch cmd := cmd.(type) {
	case AddCommand:
		return c.Add(cmd.Fields)
	case DeleteCommand:
		if cmd.ID != "" {
			return c.Delete(cmd.ID)
		}
		if cmd.Row == 0 {
			return c.Refresh(), nil
		}
		return c.DeleteAt(cmd.Row - 1)
	case RefreshCommand:
		return c.Refresh(), nil
	default:
		return RefreshEvent{}, fmt.Errorf("unknown command %T", cmd)
	}
}
