package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend stores collection documents in a Postgres table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
    name       TEXT PRIMARY KEY,
    doc        TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// NewPostgresBackend opens a connection pool and ensures the snapshot
// table exists.
func NewPostgresBackend(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

// Read returns the document for name, or ErrNotExist.
func (b *PostgresBackend) Read(ctx context.Context, name string) ([]byte, error) {
	var doc string
	err := b.pool.QueryRow(ctx, `SELECT doc FROM snapshots WHERE name = $1`, name).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return []byte(doc), nil
}

// Write upserts the document for name.
func (b *PostgresBackend) Write(ctx context.Context, name string, data []byte) error {
	const q = `
INSERT INTO snapshots (name, doc, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW();
`
	if _, err := b.pool.Exec(ctx, q, name, string(data)); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	return nil
}

// Close releases the connection pool.
func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
