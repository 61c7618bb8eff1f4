package cli

import (
	"io"
	"time"

	"task-manager/internal/api"
)

// defaultCommandTimeout bounds a single command when no configuration is available
const defaultCommandTimeout = 60 * time.Second

// App represents the CLI application shared by every command handler
type App struct {
	businessAPI api.BusinessAPI
	registry    *CommandRegistry
	out         io.Writer
	timeout     time.Duration
}

// NewAppWithOutput creates a CLI application writing to out. timeout bounds each command.
func NewAppWithOutput(businessAPI api.BusinessAPI, out io.Writer, timeout time.Duration) *App {
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}
	app := &App{
		businessAPI: businessAPI,
		out:         out,
		timeout:     timeout,
	}
	app.registry = NewCommandRegistry(app)
	return app
}

// Registry returns the shell command registry
func (a *App) Registry() *CommandRegistry {
	return a.registry
}
