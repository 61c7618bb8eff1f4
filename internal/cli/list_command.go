package cli

import (
	"context"

	"task-manager/internal/api"
	"task-manager/internal/errors"
)

// ListCommand handles the list command
type ListCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute prints every task followed by the summary line
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errors.NewInvalidInputError("command", "list", "list takes no arguments")
	}

	state, err := c.businessAPI.GetViewState(ctx)
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}
	printViewState(c.app.out, state)
	return nil
}
