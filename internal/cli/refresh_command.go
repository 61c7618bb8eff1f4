package cli

import (
	"context"
	"fmt"

	"task-manager/internal/api"
	"task-manager/internal/errors"
)

// RefreshCommand handles the refresh command
type RefreshCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewRefreshCommand creates a new refresh command handler
func NewRefreshCommand(app *App) *RefreshCommand {
	return &RefreshCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute imports today's bills as completed tasks
func (c *RefreshCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return errors.NewInvalidInputError("command", "refresh", "refresh takes no arguments")
	}

	added, err := c.businessAPI.RefreshBills(ctx)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	fmt.Fprintf(c.app.out, "Imported %d bill(s)\n", len(added))
	for _, task := range added {
		printTask(c.app.out, task)
	}
	return nil
}
