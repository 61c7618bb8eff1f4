package services

import (
	"context"
	"fmt"
	"sync"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository/sqlite"
	"task-manager/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlite.Repository
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
	billValidator *validation.BillValidator

	mu    sync.Mutex
	input string
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqlite.Repository) TaskService {
	return NewTaskServiceWithLimit(repo, validation.DefaultTaskTextMaxLength)
}

// NewTaskServiceWithLimit creates a TaskService accepting task text up to maxLength characters
func NewTaskServiceWithLimit(repo sqlite.Repository, maxLength int) TaskService {
	return &taskServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidatorWithLimit(maxLength),
		billValidator: validation.NewBillValidator(),
	}
}

// Add appends a plain task. Blank text is ignored and returns a nil task.
func (t *taskServiceImpl) Add(ctx context.Context, text string) (*domain.Task, error) {
	if t.taskValidator.IsBlank(text) {
		return nil, nil
	}

	trimmed, err := t.taskValidator.GetValidTaskText(text)
	if err != nil {
		return nil, errors.NewValidationError("invalid task text", err)
	}

	dbTask := t.mapper.Task.ToDatabase(domain.NewPlainTask(trimmed))
	if err := t.repo.CreateTask(ctx, &dbTask); err != nil {
		return nil, err
	}

	t.SetInput("")

	task, err := t.mapper.Task.FromDatabase(dbTask)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// SetInput replaces the input buffer
func (t *taskServiceImpl) SetInput(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = text
}

// Input returns the input buffer
func (t *taskServiceImpl) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

// SubmitInput adds the buffered text as a task
func (t *taskServiceImpl) SubmitInput(ctx context.Context) (*domain.Task, error) {
	return t.Add(ctx, t.Input())
}

// Toggle flips a task's completed flag. Unknown IDs are ignored and return a nil task.
func (t *taskServiceImpl) Toggle(ctx context.Context, id int64) (*domain.Task, error) {
	if err := t.repo.ToggleTask(ctx, id); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task, err := t.mapper.Task.FromDatabase(*dbTask)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task. Unknown IDs are ignored.
func (t *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := t.repo.DeleteTask(ctx, id); err != nil && !errors.IsErrorType(err, errors.ErrorTypeNotFound) {
		return err
	}
	return nil
}

// IngestBills appends one completed task per record, in record order.
// Either all records become tasks or none do.
func (t *taskServiceImpl) IngestBills(ctx context.Context, records []domain.BillRecord) ([]domain.Task, error) {
	if len(records) == 0 {
		return []domain.Task{}, nil
	}

	if err := t.billValidator.ValidateBillRecords(records); err != nil {
		return nil, errors.NewValidationError("invalid bill records", err)
	}

	tasks := t.mapper.Bill.ToTasks(records)
	dbTasks := make([]*sqlite.Task, len(tasks))
	for i, task := range tasks {
		dbTask := t.mapper.Task.ToDatabase(task)
		dbTasks[i] = &dbTask
	}

	if err := t.repo.CreateTasks(ctx, dbTasks); err != nil {
		return nil, err
	}

	for i := range tasks {
		tasks[i].ID = dbTasks[i].ID
	}
	return tasks, nil
}

// List returns all tasks in insertion order
func (t *taskServiceImpl) List(ctx context.Context) ([]domain.Task, error) {
	dbTasks, err := t.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := t.mapper.Task.FromDatabaseSlice(dbTasks)
	if err != nil {
		return nil, errors.NewDatabaseError("map tasks", fmt.Errorf("corrupt task row: %w", err))
	}
	return tasks, nil
}

// Summary counts all and completed tasks on every call
func (t *taskServiceImpl) Summary(ctx context.Context) (domain.Summary, error) {
	counts, err := t.repo.CountTasks(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{Total: counts.Total, Completed: counts.Completed}, nil
}
