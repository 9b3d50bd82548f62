package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPostgresTable is the table used when none is given.
const DefaultPostgresTable = "scout_kv"

// PostgresAdapter stores values in a jsonb key-value table:
//
//	CREATE TABLE scout_kv (
//	  key        text PRIMARY KEY,
//	  value      jsonb NOT NULL,
//	  updated_at timestamptz NOT NULL DEFAULT now()
//	);
//
// EnsureSchema creates the table if it does not exist.
type PostgresAdapter struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresAdapter wraps an existing pool.
func NewPostgresAdapter(pool *pgxpool.Pool, table string) *PostgresAdapter {
	if table == "" {
		table = DefaultPostgresTable
	}
	return &PostgresAdapter{pool: pool, table: pgx.Identifier{table}.Sanitize()}
}

// ConnectPostgres opens a pool for dsn and ensures the table exists.
func ConnectPostgres(ctx context.Context, dsn, table string) (*PostgresAdapter, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: connect postgres: %w", err)
	}
	a := NewPostgresAdapter(pool, table)
	if err := a.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return a, nil
}

// EnsureSchema creates the key-value table if needed.
func (p *PostgresAdapter) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        text PRIMARY KEY,
		value      jsonb NOT NULL,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`, p.table))
	if err != nil {
		return fmt.Errorf("store: create table: %w", err)
	}
	return nil
}

// Close closes the pool.
func (p *PostgresAdapter) Close() error {
	p.pool.Close()
	return nil
}

// Get retrieves a value by key.
func (p *PostgresAdapter) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var raw string
	err := p.pool.QueryRow(ctx, fmt.Sprintf("SELECT value::text FROM %s WHERE key=$1", p.table), key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return json.RawMessage(raw), true, nil
}

// Set upserts a value.
func (p *PostgresAdapter) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(
		"INSERT INTO %s (key, value) VALUES ($1, $2::jsonb) ON CONFLICT (key) DO UPDATE SET value=excluded.value, updated_at=now()",
		p.table), key, string(value))
	return err
}

// Delete removes a key.
func (p *PostgresAdapter) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE key=$1", p.table), key)
	return err
}

// Has returns true if the key exists.
func (p *PostgresAdapter) Has(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE key=$1)", p.table), key).Scan(&exists)
	return exists, err
}

// Keys returns all keys in sorted order.
func (p *PostgresAdapter) Keys(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf("SELECT key FROM %s ORDER BY key", p.table))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Len returns the number of rows.
func (p *PostgresAdapter) Len(ctx context.Context) (int, error) {
	var n int
	err := p.pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", p.table)).Scan(&n)
	return n, err
}

// Clear removes all rows.
func (p *PostgresAdapter) Clear(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", p.table))
	return err
}

// Load retrieves all rows.
func (p *PostgresAdapter) Load(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := p.pool.Query(ctx, fmt.Sprintf("SELECT key, value::text FROM %s", p.table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		out[key] = json.RawMessage(raw)
	}
	return out, rows.Err()
}

// Save replaces the table contents with data in one transaction.
func (p *PostgresAdapter) Save(ctx context.Context, data map[string]json.RawMessage) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", p.table)); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		for k, v := range data {
			batch.Queue(fmt.Sprintf("INSERT INTO %s (key, value) VALUES ($1, $2::jsonb)", p.table), k, string(v))
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

var _ Adapter = (*PostgresAdapter)(nil)
