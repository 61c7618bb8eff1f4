package cli

import (
	"context"
	"fmt"

	"task-manager/internal/api"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the delete command. Deleting an unknown id is not an error.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskIDArg("delete", args)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	if err := c.businessAPI.DeleteTask(ctx, id); err != nil {
		return c.errorHandler.Handle("delete task", err)
	}
	fmt.Fprintf(c.app.out, "Deleted task %d\n", id)
	return nil
}
