package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}
	if len(dest) != len(ts.data) {
		return errors.New("mismatch in number of destinations")
	}

	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = ts.data[i].(int64)
		case *bool:
			*v = ts.data[i].(bool)
		case *string:
			*v = ts.data[i].(string)
		case *sql.NullString:
			*v = ts.data[i].(sql.NullString)
		}
	}
	return nil
}

// testRows feeds a fixed list of scanners through the Rows interface
type testRows struct {
	rows []*TestScanner
	pos  int
	err  error
}

func (r *testRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *testRows) Scan(dest ...interface{}) error {
	return r.rows[r.pos-1].Scan(dest...)
}

func (r *testRows) Err() error {
	return r.err
}

func plainRow(id int64, text string, completed bool) *TestScanner {
	return &TestScanner{data: []interface{}{
		id, text, completed, "plain",
		sql.NullString{}, sql.NullString{}, sql.NullString{},
	}}
}

func TestScanTask_Plain(t *testing.T) {
	task, err := ScanTask(plainRow(1, "buy milk", false))
	require.NoError(t, err)

	assert.Equal(t, &Task{ID: 1, Text: "buy milk", Kind: "plain"}, task)
}

func TestScanTask_Bill(t *testing.T) {
	scanner := &TestScanner{data: []interface{}{
		int64(2), "支付: coffee", true, "bill",
		sql.NullString{String: "9.9", Valid: true},
		sql.NullString{String: "T1", Valid: true},
		sql.NullString{String: "2024-01-01T10:00:00Z", Valid: true},
	}}

	task, err := ScanTask(scanner)
	require.NoError(t, err)

	require.NotNil(t, task.Amount)
	assert.Equal(t, "9.9", *task.Amount)
	assert.Equal(t, "T1", *task.TransactionID)
	assert.True(t, task.TradeTime.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
}

func TestScanTask_Errors(t *testing.T) {
	_, err := ScanTask(&TestScanner{err: sql.ErrNoRows})
	assert.ErrorIs(t, err, sql.ErrNoRows)

	badTime := &TestScanner{data: []interface{}{
		int64(3), "支付: tea", true, "bill",
		sql.NullString{String: "1", Valid: true},
		sql.NullString{String: "T3", Valid: true},
		sql.NullString{String: "yesterday", Valid: true},
	}}
	_, err = ScanTask(badTime)
	assert.Error(t, err)
}

func TestScanTasks(t *testing.T) {
	rows := &testRows{rows: []*TestScanner{
		plainRow(1, "first", false),
		plainRow(2, "second", true),
	}}

	tasks, err := ScanTasks(rows)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "first", tasks[0].Text)
	assert.True(t, tasks[1].Completed)

	_, err = ScanTasks(&testRows{err: errors.New("cursor closed")})
	assert.Error(t, err)
}
