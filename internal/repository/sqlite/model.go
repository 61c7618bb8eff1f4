package sqlite

import "time"

// Task is a row of the tasks table.
// Amount, TransactionID and TradeTime are set only for bill tasks.
type Task struct {
	ID            int64
	Text          string
	Completed     bool
	Kind          string
	Amount        *string
	TransactionID *string
	TradeTime     *time.Time
}

// TaskCounts holds the aggregate counts of the tasks table.
type TaskCounts struct {
	Total     int
	Completed int
}
