package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskKind tags which variant a Task is.
type TaskKind string

const (
	// TaskKindPlain is a task typed in by the user.
	TaskKindPlain TaskKind = "plain"
	// TaskKindBill is a task derived from a payment bill record.
	TaskKindBill TaskKind = "bill"
)

// BillDetails holds the payment metadata carried only by bill tasks.
type BillDetails struct {
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	TradeTime     time.Time       `json:"trade_time"`
}

// Task represents a to-do item in the domain model.
// Bill is non-nil exactly when Kind is TaskKindBill.
type Task struct {
	ID        int64        `json:"id"`
	Text      string       `json:"text"`
	Completed bool         `json:"completed"`
	Kind      TaskKind     `json:"kind"`
	Bill      *BillDetails `json:"bill,omitempty"`
}

// NewPlainTask creates an incomplete user task.
func NewPlainTask(text string) Task {
	return Task{
		Text: text,
		Kind: TaskKindPlain,
	}
}

// NewBillTask creates a bill task. Bill tasks are always created completed.
func NewBillTask(text string, details BillDetails) Task {
	return Task{
		Text:      text,
		Completed: true,
		Kind:      TaskKindBill,
		Bill:      &details,
	}
}

// IsBill reports whether the task was derived from a bill record.
func (t Task) IsBill() bool {
	return t.Kind == TaskKindBill
}

// IsValid checks the text and that the variant tag matches the payload.
func (t Task) IsValid() bool {
	if t.Text == "" {
		return false
	}
	switch t.Kind {
	case TaskKindPlain:
		return t.Bill == nil
	case TaskKindBill:
		return t.Bill != nil
	default:
		return false
	}
}

// String returns the task text for display purposes.
func (t Task) String() string {
	return t.Text
}

// Summary is the derived count line of the task list.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}
