package cli

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/validation"
)

// mockBusinessAPI implements the BusinessAPI interface for testing
type mockBusinessAPI struct {
	tasks     map[int64]*domain.Task
	nextID    int64
	input     string
	bills     []domain.BillRecord
	fetchErr  error
	loading   bool
	lastError string

	initialRefreshes int
	waits            int
	previewDates     []string
}

// newMockBusinessAPI creates a new mock BusinessAPI instance
func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
	}
}

func (m *mockBusinessAPI) AddTask(ctx context.Context, text string) (*domain.Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	if err := validation.NewTaskValidatorWithLimit(20).ValidateTaskText(trimmed); err != nil {
		return nil, errors.NewValidationError("invalid task text", err)
	}
	task := domain.NewPlainTask(trimmed)
	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = &task
	m.input = ""
	return &task, nil
}

func (m *mockBusinessAPI) SetInput(text string) {
	m.input = text
}

func (m *mockBusinessAPI) SubmitInput(ctx context.Context) (*domain.Task, error) {
	return m.AddTask(ctx, m.input)
}

func (m *mockBusinessAPI) ToggleTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, exists := m.tasks[id]
	if !exists {
		return nil, nil
	}
	task.Completed = !task.Completed
	toggled := *task
	return &toggled, nil
}

func (m *mockBusinessAPI) DeleteTask(ctx context.Context, id int64) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockBusinessAPI) ListTasks(ctx context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, *task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *mockBusinessAPI) GetSummary(ctx context.Context) (domain.Summary, error) {
	tasks, _ := m.ListTasks(ctx)
	return summarize(tasks), nil
}

func (m *mockBusinessAPI) GetViewState(ctx context.Context) (*api.ViewState, error) {
	tasks, _ := m.ListTasks(ctx)
	return &api.ViewState{
		Tasks:   tasks,
		Input:   m.input,
		Summary: summarize(tasks),
		Loading: m.loading,
		Error:   m.lastError,
	}, nil
}

func (m *mockBusinessAPI) RefreshBills(ctx context.Context) ([]domain.Task, error) {
	if m.fetchErr != nil {
		m.lastError = errors.FetchFailedMessage
		return nil, m.fetchErr
	}
	m.lastError = ""

	added := domain.NewMapper().Bill.ToTasks(m.bills)
	for i := range added {
		added[i].ID = m.nextID
		m.nextID++
		task := added[i]
		m.tasks[task.ID] = &task
	}
	return added, nil
}

func (m *mockBusinessAPI) EnsureInitialRefresh(ctx context.Context) bool {
	m.initialRefreshes++
	return m.initialRefreshes == 1
}

func (m *mockBusinessAPI) WaitForRefresh() {
	m.waits++
}

func (m *mockBusinessAPI) PreviewBills(ctx context.Context, date string) ([]domain.Task, error) {
	m.previewDates = append(m.previewDates, date)
	if date != "" {
		if err := validation.NewBillValidator().ValidateBillDate(date); err != nil {
			return nil, errors.NewValidationError("invalid bill date", err)
		}
	}
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return domain.NewMapper().Bill.ToTasks(m.bills), nil
}

func summarize(tasks []domain.Task) domain.Summary {
	summary := domain.Summary{Total: len(tasks)}
	for _, task := range tasks {
		if task.Completed {
			summary.Completed++
		}
	}
	return summary
}

// billRecord builds a bill record for tests
func billRecord(id, amount, description string) domain.BillRecord {
	return domain.BillRecord{
		TransactionID: id,
		TradeTime:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Amount:        decimal.RequireFromString(amount),
		Description:   description,
	}
}

// setupTestAppWithMockBusinessAPI creates an App over a mock API writing to a buffer
func setupTestAppWithMockBusinessAPI(t *testing.T) (*App, *mockBusinessAPI, *bytes.Buffer) {
	t.Helper()
	mock := newMockBusinessAPI()
	out := &bytes.Buffer{}
	return NewAppWithOutput(mock, out, time.Second), mock, out
}
