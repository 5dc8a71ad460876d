// Package sqlite implements the repository interfaces on an embedded SQLite
// database, using the pure-Go modernc.org/sqlite driver so the binary builds
// without cgo.
//
// The pool is limited to a single connection. SQLite serialises writers
// anyway, and with ":memory:" every extra connection would see its own empty
// database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/sakif/climate-hub/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens the database at dbPath (a file path or ":memory:") and runs
// migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Off by default in SQLite; tags and comments reference discussions.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. Every statement is idempotent.
//
// discussions.position orders the forum listing: seeds take 0..n-1 in
// catalogue order and each new thread takes MIN(position)-1, so ORDER BY
// position ASC is newest-first without disturbing the seed order.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS discussions (
			id            INTEGER PRIMARY KEY,
			position      INTEGER NOT NULL,
			title         TEXT NOT NULL,
			content       TEXT NOT NULL,
			author        TEXT NOT NULL,
			avatar        TEXT NOT NULL DEFAULT '',
			date          TEXT NOT NULL,
			likes         INTEGER NOT NULL DEFAULT 0,
			comment_count INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_discussions_position ON discussions(position);

		CREATE TABLE IF NOT EXISTS discussion_tags (
			discussion_id INTEGER NOT NULL REFERENCES discussions(id) ON DELETE CASCADE,
			position      INTEGER NOT NULL,
			tag           TEXT NOT NULL,
			PRIMARY KEY (discussion_id, position)
		);
		CREATE INDEX IF NOT EXISTS idx_discussion_tags_tag ON discussion_tags(tag);

		CREATE TABLE IF NOT EXISTS comments (
			discussion_id INTEGER NOT NULL REFERENCES discussions(id) ON DELETE CASCADE,
			id            INTEGER NOT NULL,
			author        TEXT NOT NULL,
			content       TEXT NOT NULL,
			date          TEXT NOT NULL,
			PRIMARY KEY (discussion_id, id)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating forum tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS contact_messages (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			message    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating contact_messages table: %w", err)
	}

	// github_id is UNIQUE: one GitHub account maps to exactly one member.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			github_id  INTEGER NOT NULL UNIQUE,
			login      TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}

// withTx runs fn inside a transaction, committing on success.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}
