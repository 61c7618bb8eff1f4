package cli

import (
	"context"
	"fmt"
	"strings"

	"task-manager/internal/api"
	"task-manager/internal/errors"
)

// AddCommand handles the add command
type AddCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the add command. The text goes through the input buffer the
// same way a form submission does.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "add", "usage: add <text>")
	}

	c.businessAPI.SetInput(strings.Join(args, " "))
	task, err := c.businessAPI.SubmitInput(ctx)
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}
	if task == nil {
		// blank text is ignored
		return nil
	}
	fmt.Fprintf(c.app.out, "Added task %d: %s\n", task.ID, task.Text)
	return nil
}
