// Package sqlite implements the relational persistence layer on a single
// SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultTimeout = 5 * time.Second

// Schema DDL. Username uniqueness lives in the constraint so that account
// creation is a single atomic insert, and tasks reference their owner with an
// enforced foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    hash     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_tasks (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id   INTEGER NOT NULL REFERENCES users(id),
    task      TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0
);
`

// Config captures the settings for opening the SQLite database.
type Config struct {
	Path    string
	Timeout time.Duration
}

// Connect opens the database file, verifies connectivity with a ping, and
// ensures the schema exists. Foreign-key enforcement is switched on through
// the DSN so it applies to every connection in the pool.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}

	if _, err := db.ExecContext(pingCtx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return db, nil
}
