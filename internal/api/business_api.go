package api

import (
	"context"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository/sqlite"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

// ViewState is everything the task list view renders
type ViewState struct {
	Tasks       []domain.Task  `json:"tasks"`
	Input       string         `json:"input"`
	Summary     domain.Summary `json:"summary"`
	Loading     bool           `json:"loading"`
	Error       string         `json:"error,omitempty"`
	LastRefresh *time.Time     `json:"last_refresh,omitempty"`
}

// BusinessAPI defines the operations shared by the web view, the shell and the CLI
type BusinessAPI interface {
	// ========== Task List Workflows ==========

	// AddTask appends a plain task; blank text is ignored and returns nil
	AddTask(ctx context.Context, text string) (*domain.Task, error)

	// SetInput replaces the input buffer
	SetInput(text string)

	// SubmitInput adds the input buffer as a task and clears it
	SubmitInput(ctx context.Context) (*domain.Task, error)

	// ToggleTask flips a task's completed flag; unknown IDs return nil
	ToggleTask(ctx context.Context, id int64) (*domain.Task, error)

	// DeleteTask removes a task; unknown IDs are ignored
	DeleteTask(ctx context.Context, id int64) error

	// ========== Query Operations ==========

	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetSummary(ctx context.Context) (domain.Summary, error)
	GetViewState(ctx context.Context) (*ViewState, error)

	// ========== Bill Ingestion ==========

	// RefreshBills fetches today's bills and appends them as completed tasks
	RefreshBills(ctx context.Context) ([]domain.Task, error)

	// EnsureInitialRefresh starts the first refresh in the background, once
	EnsureInitialRefresh(ctx context.Context) bool

	// WaitForRefresh blocks until background refreshes have finished
	WaitForRefresh()

	// PreviewBills fetches the bills for date (YYYY-MM-DD, empty for today) and
	// returns the tasks they would become, without storing them
	PreviewBills(ctx context.Context, date string) ([]domain.Task, error)
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	tasks         services.TaskService
	ingestion     services.IngestionService
	mapper        *domain.Mapper
	billValidator *validation.BillValidator
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(container services.ServiceContainer) BusinessAPI {
	return &businessAPIImpl{
		tasks:         container.TaskService,
		ingestion:     container.IngestionService,
		mapper:        domain.NewMapper(),
		billValidator: validation.NewBillValidator(),
	}
}

// NewBusinessAPIFromRepository wires the services over repo. fetcher may be nil
// when the payment provider is not configured.
func NewBusinessAPIFromRepository(repo sqlite.Repository, fetcher services.BillFetcher, maxTextLength int) BusinessAPI {
	tasks := services.NewTaskServiceWithLimit(repo, maxTextLength)
	return NewBusinessAPI(services.ServiceContainer{
		TaskService:      tasks,
		IngestionService: services.NewIngestionService(fetcher, tasks),
	})
}

// ========== Task List Workflows ==========

func (b *businessAPIImpl) AddTask(ctx context.Context, text string) (*domain.Task, error) {
	return b.tasks.Add(ctx, text)
}

func (b *businessAPIImpl) SetInput(text string) {
	b.tasks.SetInput(text)
}

func (b *businessAPIImpl) SubmitInput(ctx context.Context) (*domain.Task, error) {
	return b.tasks.SubmitInput(ctx)
}

func (b *businessAPIImpl) ToggleTask(ctx context.Context, id int64) (*domain.Task, error) {
	return b.tasks.Toggle(ctx, id)
}

func (b *businessAPIImpl) DeleteTask(ctx context.Context, id int64) error {
	return b.tasks.Delete(ctx, id)
}

// ========== Query Operations ==========

func (b *businessAPIImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return b.tasks.List(ctx)
}

func (b *businessAPIImpl) GetSummary(ctx context.Context) (domain.Summary, error) {
	return b.tasks.Summary(ctx)
}

func (b *businessAPIImpl) GetViewState(ctx context.Context) (*ViewState, error) {
	tasks, err := b.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := b.tasks.Summary(ctx)
	if err != nil {
		return nil, err
	}

	status := b.ingestion.Status()
	return &ViewState{
		Tasks:       tasks,
		Input:       b.tasks.Input(),
		Summary:     summary,
		Loading:     status.Loading,
		Error:       status.Error,
		LastRefresh: status.LastRefresh,
	}, nil
}

// ========== Bill Ingestion ==========

func (b *businessAPIImpl) RefreshBills(ctx context.Context) ([]domain.Task, error) {
	return b.ingestion.Refresh(ctx)
}

func (b *businessAPIImpl) EnsureInitialRefresh(ctx context.Context) bool {
	return b.ingestion.StartInitialRefresh(ctx)
}

func (b *businessAPIImpl) WaitForRefresh() {
	b.ingestion.Wait()
}

func (b *businessAPIImpl) PreviewBills(ctx context.Context, date string) ([]domain.Task, error) {
	if date != "" {
		if err := b.billValidator.ValidateBillDate(date); err != nil {
			return nil, errors.NewValidationError("invalid bill date", err)
		}
	}

	records, err := b.ingestion.FetchBills(ctx, date)
	if err != nil {
		return nil, err
	}
	if err := b.billValidator.ValidateBillRecords(records); err != nil {
		return nil, errors.NewValidationError("invalid bill records", err)
	}
	return b.mapper.Bill.ToTasks(records), nil
}
