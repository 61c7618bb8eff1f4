package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	apperrors "task-manager/internal/errors"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// dbError wraps a driver error as a database AppError naming the operation.
func dbError(operation string, err error) error {
	return apperrors.NewDatabaseError(operation, err)
}

func taskNotFound(id int64) error {
	return apperrors.NewNotFoundError("task", strconv.FormatInt(id, 10))
}

// insertReturningID runs an INSERT and returns the id SQLite assigned to the new row.
func insertReturningID(ctx context.Context, db Execer, operation, query string, args ...any) (int64, error) {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, dbError(operation, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, dbError(operation, err)
	}
	return id, nil
}

// execOnTask runs a statement keyed by a task id. Touching no rows means the
// task does not exist.
func execOnTask(ctx context.Context, db Execer, operation, query string, id int64) error {
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return dbError(operation, err)
	}
	return requireTaskAffected(result, operation, id)
}

func requireTaskAffected(result sql.Result, operation string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return dbError(operation, err)
	}
	if n == 0 {
		return taskNotFound(id)
	}
	return nil
}

// queryOne scans the single row returned by query. sql.ErrNoRows becomes notFound.
func queryOne[T any](ctx context.Context, db *sql.DB, operation string, notFound error, scan func(Scanner) (*T, error), query string, args ...any) (*T, error) {
	result, err := scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, dbError(operation, err)
	}
	return result, nil
}

// queryAll scans every row returned by query.
func queryAll[T any](ctx context.Context, db *sql.DB, operation string, scan func(Rows) ([]*T, error), query string, args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(operation, err)
	}
	defer rows.Close()

	results, err := scan(rows)
	if err != nil {
		return nil, dbError(operation, err)
	}
	return results, nil
}
