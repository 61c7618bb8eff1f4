package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/errors"
)

func TestRefreshCommand_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("imports bills as completed tasks", func(t *testing.T) {
		app, mock, out := setupTestAppWithMockBusinessAPI(t)
		mock.bills = append(mock.bills,
			billRecord("T1", "9.9", "coffee"),
			billRecord("T2", "12", "bagel"),
		)

		require.NoError(t, NewRefreshCommand(app).Execute(ctx, nil))

		expected := "Imported 2 bill(s)\n" +
			"[x] 1  支付: coffee  ¥9.90\n" +
			"[x] 2  支付: bagel  ¥12.00\n"
		assert.Equal(t, expected, out.String())

		summary, _ := mock.GetSummary(ctx)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 2, summary.Completed)
	})

	t.Run("fetch failure shows the localized message", func(t *testing.T) {
		app, mock, _ := setupTestAppWithMockBusinessAPI(t)
		_, _ = mock.AddTask(ctx, "keep me")
		mock.fetchErr = errors.NewFetchError("query trade bill", 500, nil)

		err := NewRefreshCommand(app).Execute(ctx, nil)
		require.Error(t, err)
		assert.Equal(t, "获取账单失败", err.Error())

		tasks, _ := mock.ListTasks(ctx)
		assert.Len(t, tasks, 1)
	})

	t.Run("rejects arguments", func(t *testing.T) {
		app, _, _ := setupTestAppWithMockBusinessAPI(t)

		assert.Error(t, NewRefreshCommand(app).Execute(ctx, []string{"now"}))
	})
}
