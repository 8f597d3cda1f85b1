// Package cache keeps the last list received from the server in a local
// SQLite file so it can be shown while offline.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"todo/internal/gateway"
	"todo/internal/tasklist"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned by Load when nothing was saved for the scope.
var ErrNoSnapshot = tasklist.ErrNoSnapshot

// Cache is a tasklist.Mirror backed by SQLite. Rows are partitioned by
// scope so switching backend or account never shows another list.
type Cache struct {
	db    *sql.DB
	scope string
	now   func() time.Time
}

// Open opens (creating if needed) the cache file at path.
func Open(ctx context.Context, path, scope string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db, scope: scope, now: time.Now}, nil
}

// dsn carries the pragmas so every pooled connection gets them. A CLI and
// a UI may run side by side.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range []string{"busy_timeout(5000)", "journal_mode(WAL)", "synchronous(NORMAL)"} {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			scope TEXT PRIMARY KEY,
			saved_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			scope TEXT NOT NULL,
			pos INTEGER NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			completed INTEGER NOT NULL,
			PRIMARY KEY(scope, pos)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("cache migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Scope returns the partition this cache reads and writes.
func (c *Cache) Scope() string {
	return c.scope
}

// Save replaces the snapshot for the scope with tasks, preserving order.
func (c *Cache) Save(ctx context.Context, tasks []gateway.Task) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE scope = ?`, c.scope); err != nil {
		return err
	}
	for i, t := range tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks(scope, pos, id, title, completed) VALUES(?, ?, ?, ?, ?)`,
			c.scope, i, t.ID, t.Title, boolToInt(t.Completed),
		); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots(scope, saved_at_unixms) VALUES(?, ?)
		 ON CONFLICT(scope) DO UPDATE SET saved_at_unixms = excluded.saved_at_unixms`,
		c.scope, c.now().UnixMilli(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Load returns the saved snapshot in its original order. An empty list that
// was saved is returned as an empty, non-nil slice.
func (c *Cache) Load(ctx context.Context) ([]gateway.Task, error) {
	if _, err := c.SavedAt(ctx); err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT id, title, completed FROM tasks WHERE scope = ? ORDER BY pos`, c.scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []gateway.Task{}
	for rows.Next() {
		var t gateway.Task
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &completed); err != nil {
			return nil, err
		}
		t.Completed = completed != 0
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// SavedAt returns when the snapshot for the scope was last saved.
func (c *Cache) SavedAt(ctx context.Context) (time.Time, error) {
	var ms int64
	err := c.db.QueryRowContext(ctx,
		`SELECT saved_at_unixms FROM snapshots WHERE scope = ?`, c.scope).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

// Clear forgets the snapshot for the scope.
func (c *Cache) Clear(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE scope = ?`, c.scope); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE scope = ?`, c.scope); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearAll forgets every scope. Used on logout.
func (c *Cache) ClearAll(ctx context.Context) error {
	for _, st := range []string{`DELETE FROM tasks`, `DELETE FROM snapshots`} {
		if _, err := c.db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
