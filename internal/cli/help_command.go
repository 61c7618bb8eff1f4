package cli

import (
	"context"
	"fmt"
)

// HelpCommand prints the shell usage
type HelpCommand struct {
	app *App
}

// NewHelpCommand creates a new help command handler
func NewHelpCommand(app *App) *HelpCommand {
	return &HelpCommand{app: app}
}

// Execute runs the help command
func (c *HelpCommand) Execute(ctx context.Context, args []string) error {
	fmt.Fprintln(c.app.out, c.app.registry.GetUsage())
	return nil
}
