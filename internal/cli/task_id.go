package cli

import (
	"strconv"
	"strings"

	"task-manager/internal/errors"
	"task-manager/internal/validation"
)

// parseTaskIDArg parses the single task id argument of toggle and delete
func parseTaskIDArg(command string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.NewInvalidInputError("command", command, "usage: "+command+" <id>")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("id", args[0], "must be a positive number")
	}
	if err := validation.NewTaskValidator().ValidateTaskID(id); err != nil {
		return 0, errors.NewInvalidInputError("id", args[0], "must be a positive number")
	}
	return id, nil
}
