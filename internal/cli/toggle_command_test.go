package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCommand_Execute(t *testing.T) {
	ctx := context.Background()
	app, mock, out := setupTestAppWithMockBusinessAPI(t)
	cmd := NewToggleCommand(app)

	task, err := mock.AddTask(ctx, "buy milk")
	require.NoError(t, err)

	t.Run("marks done then not done", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cmd.Execute(ctx, []string{"1"}))
		assert.True(t, mock.tasks[task.ID].Completed)
		assert.Equal(t, "Marked task 1 as done: buy milk\n", out.String())

		out.Reset()
		require.NoError(t, cmd.Execute(ctx, []string{"1"}))
		assert.False(t, mock.tasks[task.ID].Completed)
		assert.Equal(t, "Marked task 1 as not done: buy milk\n", out.String())
	})

	t.Run("unknown id is not an error", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cmd.Execute(ctx, []string{"99"}))
		assert.Equal(t, "No task with id 99\n", out.String())
	})

	t.Run("invalid arguments", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want string
		}{
			{"no id", nil, "usage: toggle <id>"},
			{"two ids", []string{"1", "2"}, "usage: toggle <id>"},
			{"not a number", []string{"abc"}, "must be a positive number"},
			{"zero", []string{"0"}, "must be a positive number"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := cmd.Execute(ctx, tt.args)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}
