package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/api"
	"task-manager/internal/config"
)

type rootHarness struct {
	root    *RootCommand
	mock    *mockBusinessAPI
	out     *bytes.Buffer
	logs    *bytes.Buffer
	config  *config.Config
	closed  int
	factory APIFactory
}

func newRootHarness(t *testing.T, input string) *rootHarness {
	t.Helper()
	// keep the developer's environment out of the test
	for _, key := range []string{"TM_SERVER_ADDR", "TM_TASK_TEXT_MAX", "TM_APP_TIMEOUT", "TM_APP_VERBOSE", "TM_ENV", "WECHAT_API_BASE_URL"} {
		t.Setenv(key, "")
	}

	h := &rootHarness{
		mock: newMockBusinessAPI(),
		out:  &bytes.Buffer{},
		logs: &bytes.Buffer{},
	}
	h.factory = func(cfg *config.Config, log zerolog.Logger) (api.BusinessAPI, func() error, error) {
		h.config = cfg
		return h.mock, func() error {
			h.closed++
			return nil
		}, nil
	}
	h.root = NewRootCommand(config.NewLoaderWithEnvFiles(), func(cfg *config.Config, log zerolog.Logger) (api.BusinessAPI, func() error, error) {
		return h.factory(cfg, log)
	})
	h.root.SetIO(strings.NewReader(input), h.out, h.logs)
	return h
}

func (h *rootHarness) run(args ...string) error {
	h.root.SetArgs(args)
	return h.root.ExecuteContext(context.Background())
}

func TestRootCommand_Bills(t *testing.T) {
	h := newRootHarness(t, "")
	h.mock.bills = append(h.mock.bills, billRecord("T1", "9.9", "coffee"))

	err := h.run("bills", "--date", "2024-01-01")
	require.NoError(t, err)

	assert.Contains(t, h.out.String(), "支付: coffee  ¥9.90  T1\n")
	assert.NotContains(t, h.out.String(), "[x] 0")
	assert.Equal(t, []string{"2024-01-01"}, h.mock.previewDates)
	assert.Equal(t, 1, h.closed)
}

func TestRootCommand_BillsRejectsPositionalArgs(t *testing.T) {
	h := newRootHarness(t, "")

	err := h.run("bills", "2024-01-01")
	assert.Error(t, err)
}

func TestRootCommand_Shell(t *testing.T) {
	h := newRootHarness(t, "add write report\nlist\nquit\n")

	require.NoError(t, h.run("shell"))

	assert.Contains(t, h.out.String(), "Added task 1: write report")
	assert.Contains(t, h.out.String(), "总任务数: 1 | 已完成: 0")
	assert.Equal(t, 1, h.mock.initialRefreshes)
	assert.Equal(t, 1, h.closed)
}

func TestRootCommand_FlagOverrides(t *testing.T) {
	h := newRootHarness(t, "quit\n")

	err := h.run("--addr", ":9999", "--task-text-max", "42", "--app-timeout", "5s", "--verbose", "shell")
	require.NoError(t, err)

	require.NotNil(t, h.config)
	assert.Equal(t, ":9999", h.config.Server.Addr)
	assert.Equal(t, 42, h.config.Validation.TaskTextMaxLength)
	assert.Equal(t, 5*time.Second, h.config.Application.Timeout)
	assert.True(t, h.config.Application.Verbose)
	assert.Equal(t, 5*time.Second, h.root.getAppTimeout())
}

func TestRootCommand_UnsetFlagsKeepConfiguration(t *testing.T) {
	h := newRootHarness(t, "quit\n")
	t.Setenv("TM_SERVER_ADDR", ":7000")

	require.NoError(t, h.run("shell"))

	assert.Equal(t, ":7000", h.config.Server.Addr)
	assert.Equal(t, 500, h.config.Validation.TaskTextMaxLength)
}

func TestRootCommand_InvalidConfiguration(t *testing.T) {
	h := newRootHarness(t, "")

	err := h.run("--task-text-max", "0", "bills")
	require.Error(t, err)

	var configErr *config.ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "validation.task_text_max_length", configErr.Field)
	assert.Nil(t, h.config)
}

func TestRootCommand_FactoryError(t *testing.T) {
	h := newRootHarness(t, "")
	h.factory = func(cfg *config.Config, log zerolog.Logger) (api.BusinessAPI, func() error, error) {
		return nil, nil, stderrors.New("boom")
	}

	err := h.run("bills")
	require.EqualError(t, err, "boom")
	assert.Zero(t, h.closed)
}

func TestRootCommand_CloseError(t *testing.T) {
	h := newRootHarness(t, "quit\n")
	h.factory = func(cfg *config.Config, log zerolog.Logger) (api.BusinessAPI, func() error, error) {
		return h.mock, func() error { return stderrors.New("disk gone") }, nil
	}

	err := h.run("shell")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close task store")
}

func TestRootCommand_CommandErrorWinsOverCloseError(t *testing.T) {
	h := newRootHarness(t, "")
	h.mock.fetchErr = stderrors.New("network down")
	h.factory = func(cfg *config.Config, log zerolog.Logger) (api.BusinessAPI, func() error, error) {
		return h.mock, func() error { return stderrors.New("disk gone") }, nil
	}

	err := h.run("bills")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network down")
}

func TestRootCommand_Help(t *testing.T) {
	h := newRootHarness(t, "")

	require.NoError(t, h.run("--help"))

	assert.Contains(t, h.out.String(), "WECHAT_MERCHANT_ID")
	assert.Contains(t, h.out.String(), "serve")
	assert.Nil(t, h.config)
}
