package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "task-manager/internal/errors"
)

// fakeResult implements sql.Result for testing
type fakeResult struct {
	lastInsertID int64
	rowsAffected int64
	insertErr    error
	rowsErr      error
}

func (r fakeResult) LastInsertId() (int64, error) {
	return r.lastInsertID, r.insertErr
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.rowsErr
}

// fakeExecer returns a canned result or error from ExecContext
type fakeExecer struct {
	result sql.Result
	err    error
}

func (e fakeExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return e.result, e.err
}

func TestDBError(t *testing.T) {
	err := dbError("insert task", errors.New("disk full"))

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
	assert.Contains(t, err.Error(), "insert task")
	assert.Contains(t, err.Error(), "disk full")
}

func TestInsertReturningID(t *testing.T) {
	ctx := context.Background()

	id, err := insertReturningID(ctx, fakeExecer{result: fakeResult{lastInsertID: 7}}, "insert task", "INSERT")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = insertReturningID(ctx, fakeExecer{err: errors.New("constraint failed")}, "insert task", "INSERT")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))

	_, err = insertReturningID(ctx, fakeExecer{result: fakeResult{insertErr: errors.New("no id")}}, "insert task", "INSERT")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDatabase))
}

func TestExecOnTask(t *testing.T) {
	tests := []struct {
		name           string
		execer         fakeExecer
		expectError    bool
		expectNotFound bool
	}{
		{
			name:   "one row updated",
			execer: fakeExecer{result: fakeResult{rowsAffected: 1}},
		},
		{
			name:           "no rows affected",
			execer:         fakeExecer{result: fakeResult{rowsAffected: 0}},
			expectError:    true,
			expectNotFound: true,
		},
		{
			name:        "rows affected unavailable",
			execer:      fakeExecer{result: fakeResult{rowsErr: errors.New("driver error")}},
			expectError: true,
		},
		{
			name:        "statement failed",
			execer:      fakeExecer{err: errors.New("database is locked")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execOnTask(context.Background(), tt.execer, "toggle task", "UPDATE", 3)
			if !tt.expectError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectNotFound, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
			if tt.expectNotFound {
				assert.Contains(t, err.Error(), "task not found: 3")
			}
		})
	}
}
