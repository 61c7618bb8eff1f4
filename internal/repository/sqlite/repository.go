package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"task-manager/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// IsMemoryDSN reports whether dsn names an in-memory database, private or shared.
func IsMemoryDSN(dsn string) bool {
	return dsn == MemoryDSN || strings.HasPrefix(dsn, "file::memory:") || strings.Contains(dsn, "mode=memory")
}

const taskColumns = `id, text, completed, kind, amount, transaction_id, trade_time`

// Repository defines the interface for task storage.
// Tasks are listed in insertion order; IDs are never reused.
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *Task) error
	CreateTasks(ctx context.Context, tasks []*Task) error

	// Read operations
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	CountTasks(ctx context.Context) (TaskCounts, error)

	// Update operations
	ToggleTask(ctx context.Context, id int64) error

	// Delete operations
	DeleteTask(ctx context.Context, id int64) error

	// Utility
	Close() error
}

// Options tunes a SQLiteRepository.
type Options struct {
	QueryTimeout time.Duration
	WriteTimeout time.Duration
	Now          func() time.Time
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
}

// New creates a new SQLite repository instance with default options
func New(dsn string) (*SQLiteRepository, error) {
	return NewWithOptions(dsn, Options{})
}

// NewWithOptions creates a new SQLite repository instance
func NewWithOptions(dsn string, opts Options) (*SQLiteRepository, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, dbError("open database", err)
	}
	// Every connection to :memory: is a separate database, so keep exactly one.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, dbError("run migrations", err)
	}

	return &SQLiteRepository{db: db, opts: opts}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.QueryTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.QueryTimeout)
	}
	return ctx, func() {}
}

func (r *SQLiteRepository) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.WriteTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.WriteTimeout)
	}
	return ctx, func() {}
}

func (r *SQLiteRepository) insertTask(ctx context.Context, db Execer, task *Task) error {
	query := `
	INSERT INTO tasks (text, completed, kind, amount, transaction_id, trade_time, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := insertReturningID(ctx, db, "insert task", query,
		task.Text,
		task.Completed,
		task.Kind,
		StringPtrForDB(task.Amount),
		StringPtrForDB(task.TransactionID),
		FormatTimePtrForDB(task.TradeTime),
		FormatTimeForDB(r.opts.Now()),
	)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// CreateTask appends a task and sets its ID
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()
	return r.insertTask(ctx, r.db, task)
}

// CreateTasks appends all tasks in order inside one transaction.
// Either every task is stored and has its ID set, or none is.
func (r *SQLiteRepository) CreateTasks(ctx context.Context, tasks []*Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError("begin transaction", err)
	}

	ids := make([]int64, len(tasks))
	for i, task := range tasks {
		// insert into a copy so a rollback leaves the caller's tasks untouched
		row := *task
		if err := r.insertTask(ctx, tx, &row); err != nil {
			tx.Rollback()
			return err
		}
		ids[i] = row.ID
	}

	if err := tx.Commit(); err != nil {
		return dbError("commit transaction", err)
	}

	for i, task := range tasks {
		task.ID = ids[i]
	}
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return queryOne(ctx, r.db, "get task", taskNotFound(id), ScanTask, query, id)
}

// ListTasks retrieves all tasks in insertion order
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id ASC`
	tasks, err := queryAll(ctx, r.db, "list tasks", ScanTasks, query)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []*Task{}
	}
	return tasks, nil
}

// CountTasks counts all tasks and completed tasks
func (r *SQLiteRepository) CountTasks(ctx context.Context) (TaskCounts, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var counts TaskCounts
	query := `SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM tasks`
	if err := r.db.QueryRowContext(ctx, query).Scan(&counts.Total, &counts.Completed); err != nil {
		return TaskCounts{}, dbError("count tasks", err)
	}
	return counts, nil
}

// ToggleTask flips the completed flag of a task
func (r *SQLiteRepository) ToggleTask(ctx context.Context, id int64) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `UPDATE tasks SET completed = 1 - completed WHERE id = ?`
	return execOnTask(ctx, r.db, "toggle task", query, id)
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	ctx, cancel := r.writeContext(ctx)
	defer cancel()

	query := `DELETE FROM tasks WHERE id = ?`
	return execOnTask(ctx, r.db, "delete task", query, id)
}

var _ Repository = (*SQLiteRepository)(nil)
