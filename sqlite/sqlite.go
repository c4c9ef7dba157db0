// Package sqlite stores the delivery history in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/fwojciec/deliver"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// migrations are applied in order. The database's user_version records how
// many have run.
var migrations = []string{
	`CREATE TABLE deliveries (
		id TEXT PRIMARY KEY,
		action_id TEXT NOT NULL,
		destination TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		status_code INTEGER NOT NULL DEFAULT 0,
		post_id TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX idx_deliveries_destination ON deliveries(destination)`,
	`CREATE INDEX idx_deliveries_action_id ON deliveries(action_id)`,
	`ALTER TABLE deliveries ADD COLUMN content TEXT NOT NULL DEFAULT ''`,
}

// DB is a handle on the history database.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for the file at path. ":memory:" keeps the history in
// memory for the life of the process.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open connects to the database and brings its schema up to date.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return deliver.Errorf(deliver.EINTERNAL, "opening %s: %v", db.path, err)
	}
	// One writer at a time.
	conn.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if db.path != ":memory:" {
		// Lets history reads run while a post is recording.
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			_ = conn.Close()
			return deliver.Errorf(deliver.EINTERNAL, "%s on %s: %v", p, db.path, err)
		}
	}

	if err := migrate(conn); err != nil {
		_ = conn.Close()
		return deliver.Errorf(deliver.EINTERNAL, "migrating %s: %v", db.path, err)
	}

	db.db = conn
	return nil
}

// Close closes the database. It is a no-op if Open never succeeded.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// migrate runs the migrations the database has not seen yet in a single
// transaction.
func migrate(conn *sql.DB) error {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}
	if version >= len(migrations) {
		return nil
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, m := range migrations[version:] {
		if _, err := tx.Exec(m); err != nil {
			return err
		}
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.Exec("PRAGMA user_version = " + strconv.Itoa(len(migrations))); err != nil {
		return err
	}
	return tx.Commit()
}
