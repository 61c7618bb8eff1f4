package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"task-manager/internal/api"
)

// BillsCommand prints the tasks one day of bills would become, without storing them
type BillsCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
}

// NewBillsCommand creates a new bills command handler
func NewBillsCommand(app *App) *BillsCommand {
	return &BillsCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the bills command. args holds at most one YYYY-MM-DD date; none means today.
func (c *BillsCommand) Execute(ctx context.Context, args []string) error {
	date := ""
	if len(args) > 0 {
		date = args[0]
	}

	tasks, err := c.businessAPI.PreviewBills(ctx, date)
	if err != nil {
		return c.errorHandler.Handle("fetch bills", err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No bills found")
		return nil
	}

	total := decimal.Zero
	for _, task := range tasks {
		printBillPreview(c.app.out, task)
		if task.Bill != nil {
			total = total.Add(task.Bill.Amount)
		}
	}
	fmt.Fprintf(c.app.out, "%d bill(s), total ¥%s\n", len(tasks), total.StringFixed(2))
	return nil
}
