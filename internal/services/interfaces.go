package services

import (
	"context"
	"time"

	"task-manager/internal/domain"
)

// BillFetcher retrieves bill records from the payment provider.
type BillFetcher interface {
	FetchTodayBills(ctx context.Context) ([]domain.BillRecord, error)
	FetchBills(ctx context.Context, date string) ([]domain.BillRecord, error)
}

// IngestionStatus is a snapshot of the bill refresh state shown by the view
type IngestionStatus struct {
	Loading     bool       `json:"loading"`
	Error       string     `json:"error,omitempty"`
	Detail      string     `json:"detail,omitempty"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
	LastCount   int        `json:"last_count"`
}

// TaskService owns the task collection and the input buffer
type TaskService interface {
	// Collection operations
	Add(ctx context.Context, text string) (*domain.Task, error)
	Toggle(ctx context.Context, id int64) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
	IngestBills(ctx context.Context, records []domain.BillRecord) ([]domain.Task, error)

	// Input buffer
	SetInput(text string)
	Input() string
	SubmitInput(ctx context.Context) (*domain.Task, error)

	// Derived reads
	List(ctx context.Context) ([]domain.Task, error)
	Summary(ctx context.Context) (domain.Summary, error)
}

// IngestionService coordinates bill refreshes into the task collection
type IngestionService interface {
	Refresh(ctx context.Context) ([]domain.Task, error)
	RefreshOnce(ctx context.Context) error
	StartInitialRefresh(ctx context.Context) bool
	Wait()

	FetchBills(ctx context.Context, date string) ([]domain.BillRecord, error)

	Loading() bool
	LastError() string
	Status() IngestionStatus
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService      TaskService
	IngestionService IngestionService
}
