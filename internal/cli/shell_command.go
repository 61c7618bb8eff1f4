package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"task-manager/internal/api"
	"task-manager/internal/logging"
)

const shellPrompt = "tm> "

// ShellCommand runs an interactive line based session over the task list
type ShellCommand struct {
	app          *App
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	in           io.Reader
}

// NewShellCommand creates a shell reading commands from in
func NewShellCommand(app *App, in io.Reader) *ShellCommand {
	return &ShellCommand{
		app:          app,
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		in:           in,
	}
}

// Execute reads commands until quit, end of input or cancellation of ctx.
// Today's bills start loading in the background as soon as the shell opens.
func (c *ShellCommand) Execute(ctx context.Context, args []string) error {
	out := c.app.out
	log := logging.FromContext(ctx)

	if c.businessAPI.EnsureInitialRefresh(ctx) {
		log.Debug().Msg("Started initial bill refresh")
	}
	defer c.businessAPI.WaitForRefresh()

	fmt.Fprintln(out, "Type help for a list of commands.")
	fmt.Fprint(out, shellPrompt)

	lines, readErr := readLines(ctx, c.in)
	for {
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case next, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return <-readErr
			}
			line = next
		}
		if ctx.Err() != nil {
			return nil
		}

		name, cmdArgs := splitShellLine(line)
		switch name {
		case "":
		case "quit", "exit":
			return nil
		default:
			cmdCtx, cancel := context.WithTimeout(ctx, c.app.timeout)
			err := c.app.registry.Execute(cmdCtx, name, cmdArgs)
			cancel()
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", c.errorHandler.HandleSimple(err))
			}
		}
		fmt.Fprint(out, shellPrompt)
	}
}

// readLines scans in on its own goroutine so a blocked read does not keep
// the session open after ctx is cancelled. lines is closed at end of input,
// after the scan error has been sent on the returned error channel.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			readErr <- err
			close(lines)
		}()

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	return lines, readErr
}

// splitShellLine splits a line into the command name and its arguments.
// The text of add is kept as a single argument so inner spacing survives.
func splitShellLine(line string) (string, []string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}

	word := strings.Fields(line)[0]
	name := strings.ToLower(word)
	rest := strings.TrimSpace(line[len(word):])

	if name == "add" {
		if rest == "" {
			return name, nil
		}
		return name, []string{rest}
	}
	return name, strings.Fields(rest)
}
