package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores collection documents in a local SQLite table.
type SQLiteBackend struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    name       TEXT PRIMARY KEY,
    doc        TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

// NewSQLiteBackend opens (and initialises) the snapshot database.
func NewSQLiteBackend(ctx context.Context, databasePath string) (*SQLiteBackend, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is empty")
	}
	// Busy timeout and WAL mode are recommended for SQLite concurrency.
	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn = fmt.Sprintf("%s%s_pragma=busy_timeout=10000&_pragma=journal_mode=WAL", dsn, sep)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Read returns the document for name, or ErrNotExist.
func (b *SQLiteBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var doc string
	err := b.db.QueryRowContext(ctx, `SELECT doc FROM snapshots WHERE name = ?`, name).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return []byte(doc), nil
}

// Write upserts the document for name.
func (b *SQLiteBackend) Write(ctx context.Context, name string, data []byte) error {
	const q = `
INSERT INTO snapshots (name, doc, updated_at)
VALUES (?, ?, datetime('now'))
ON CONFLICT (name) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at;
`
	if _, err := b.db.ExecContext(ctx, q, name, string(data)); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	return nil
}

// Close releases the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
