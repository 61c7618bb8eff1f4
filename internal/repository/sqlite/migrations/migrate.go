package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed *.sql
var scripts embed.FS

const scriptSuffix = ".sql"

const createSchemaTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	dirty INTEGER NOT NULL DEFAULT 0
)`

// Migration is one numbered schema change loaded from NNNNNN_name.sql.
// Migrations only move forward; the database never outlives the process.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// ID returns the migration's file prefix, e.g. 000001_create_tasks.
func (m Migration) ID() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// RunMigrations applies every embedded migration db has not seen yet.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	all, err := LoadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	return Up(ctx, db, all)
}

// Up applies the pending migrations in version order. A migration whose
// script fails is recorded as dirty, and every later run refuses to start
// until the row is cleared by hand.
func Up(ctx context.Context, db *sql.DB, all []Migration) error {
	if _, err := db.ExecContext(ctx, createSchemaTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	state, err := readState(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema state: %w", err)
	}
	if dirty := state.dirtyVersions(); len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state, failed migration(s): %v", dirty)
	}

	for _, m := range all {
		if _, seen := state[m.Version]; seen {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			if markErr := markDirty(ctx, db, m); markErr != nil {
				return fmt.Errorf("migration %s failed: %w (marking dirty also failed: %v)", m.ID(), err, markErr)
			}
			return fmt.Errorf("migration %s failed: %w", m.ID(), err)
		}
	}
	return nil
}

// LoadMigrations reads the embedded scripts sorted by version.
func LoadMigrations() ([]Migration, error) {
	entries, err := scripts.ReadDir(".")
	if err != nil {
		return nil, err
	}

	var all []Migration
	for _, entry := range entries {
		version, name, ok := parseFilename(entry.Name())
		if !ok {
			continue
		}

		up, err := scripts.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}

		all = append(all, Migration{Version: version, Name: name, Up: string(up)})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].Version < all[j].Version })
	return all, nil
}

// parseFilename splits 000002_index_task_transactions.sql into (2, "index_task_transactions").
// Anything without a positive numeric prefix is skipped.
func parseFilename(filename string) (int, string, bool) {
	base, isScript := strings.CutSuffix(filename, scriptSuffix)
	if !isScript {
		return 0, "", false
	}
	prefix, name, _ := strings.Cut(base, "_")
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, "", false
	}
	return version, name, true
}

// schemaState maps each recorded version to its dirty flag.
type schemaState map[int]bool

func (s schemaState) dirtyVersions() []int {
	var dirty []int
	for version, isDirty := range s {
		if isDirty {
			dirty = append(dirty, version)
		}
	}
	sort.Ints(dirty)
	return dirty
}

func readState(ctx context.Context, db *sql.DB) (schemaState, error) {
	rows, err := db.QueryContext(ctx, "SELECT version, dirty FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := make(schemaState)
	for rows.Next() {
		var version int
		var dirty bool
		if err := rows.Scan(&version, &dirty); err != nil {
			return nil, err
		}
		state[version] = dirty
	}
	return state, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, m Migration) error {
	return inTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, m.Up); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name)
		return err
	})
}

func markDirty(ctx context.Context, db *sql.DB, m Migration) error {
	_, err := db.ExecContext(ctx,
		"INSERT OR REPLACE INTO schema_migrations (version, name, dirty) VALUES (?, ?, 1)",
		m.Version, m.Name)
	return err
}

func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
