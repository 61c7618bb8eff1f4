package sqlite

import (
	"database/sql"
	"fmt"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanTask scans a single task from a database row.
// Columns: id, text, completed, kind, amount, transaction_id, trade_time.
func ScanTask(scanner Scanner) (*Task, error) {
	task := &Task{}
	var amount, transactionID, tradeTime sql.NullString

	err := scanner.Scan(
		&task.ID,
		&task.Text,
		&task.Completed,
		&task.Kind,
		&amount,
		&transactionID,
		&tradeTime,
	)
	if err != nil {
		return nil, err
	}

	if amount.Valid {
		task.Amount = &amount.String
	}
	if transactionID.Valid {
		task.TransactionID = &transactionID.String
	}
	if tradeTime.Valid {
		parsed, err := ParseTimeFromDB(tradeTime.String)
		if err != nil {
			return nil, fmt.Errorf("task %d: invalid trade_time %q: %w", task.ID, tradeTime.String, err)
		}
		task.TradeTime = &parsed
	}

	return task, nil
}

// ScanTasks scans multiple tasks from database rows
func ScanTasks(rows Rows) ([]*Task, error) {
	var tasks []*Task
	for rows.Next() {
		task, err := ScanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
