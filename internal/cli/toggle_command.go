package cli

import (
	"context"
	"fmt"

	"task-manager/internal/api"
)

// ToggleCommand handles the toggle command
type ToggleCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewToggleCommand creates a new toggle command handler
func NewToggleCommand(app *App) *ToggleCommand {
	return &ToggleCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the toggle command
func (c *ToggleCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskIDArg("toggle", args)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	task, err := c.businessAPI.ToggleTask(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("toggle task", err)
	}
	if task == nil {
		fmt.Fprintf(c.app.out, "No task with id %d\n", id)
		return nil
	}

	state := "not done"
	if task.Completed {
		state = "done"
	}
	fmt.Fprintf(c.app.out, "Marked task %d as %s: %s\n", task.ID, state, task.Text)
	return nil
}
