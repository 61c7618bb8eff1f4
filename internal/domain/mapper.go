package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"task-manager/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(domainTask Task) sqlite.Task {
	dbTask := sqlite.Task{
		ID:        domainTask.ID,
		Text:      domainTask.Text,
		Completed: domainTask.Completed,
		Kind:      string(domainTask.Kind),
	}
	if domainTask.Bill != nil {
		amount := domainTask.Bill.Amount.String()
		transactionID := domainTask.Bill.TransactionID
		tradeTime := domainTask.Bill.TradeTime
		dbTask.Amount = &amount
		dbTask.TransactionID = &transactionID
		dbTask.TradeTime = &tradeTime
	}
	return dbTask
}

// FromDatabase converts a database Task to a domain Task.
// Rows whose kind and bill columns disagree are rejected.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) (Task, error) {
	task := Task{
		ID:        dbTask.ID,
		Text:      dbTask.Text,
		Completed: dbTask.Completed,
		Kind:      TaskKind(dbTask.Kind),
	}

	switch task.Kind {
	case TaskKindPlain:
		return task, nil
	case TaskKindBill:
		if dbTask.Amount == nil || dbTask.TransactionID == nil || dbTask.TradeTime == nil {
			return Task{}, fmt.Errorf("bill task %d is missing payment columns", dbTask.ID)
		}
		amount, err := decimal.NewFromString(*dbTask.Amount)
		if err != nil {
			return Task{}, fmt.Errorf("bill task %d has invalid amount %q: %w", dbTask.ID, *dbTask.Amount, err)
		}
		task.Bill = &BillDetails{
			Amount:        amount,
			TransactionID: *dbTask.TransactionID,
			TradeTime:     *dbTask.TradeTime,
		}
		return task, nil
	default:
		return Task{}, fmt.Errorf("task %d has unknown kind %q", dbTask.ID, dbTask.Kind)
	}
}

// FromDatabaseSlice converts database Tasks to domain Tasks, keeping order.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) ([]Task, error) {
	domainTasks := make([]Task, len(dbTasks))
	for i, dbTask := range dbTasks {
		task, err := m.FromDatabase(*dbTask)
		if err != nil {
			return nil, err
		}
		domainTasks[i] = task
	}
	return domainTasks, nil
}

// BillMapper turns provider bill records into tasks.
type BillMapper struct{}

// NewBillMapper creates a new BillMapper instance.
func NewBillMapper() *BillMapper {
	return &BillMapper{}
}

// ToTasks maps records to bill tasks in input order.
func (m *BillMapper) ToTasks(records []BillRecord) []Task {
	tasks := make([]Task, len(records))
	for i, record := range records {
		tasks[i] = record.ToTask()
	}
	return tasks
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task *TaskMapper
	Bill *BillMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task: NewTaskMapper(),
		Bill: NewBillMapper(),
	}
}
