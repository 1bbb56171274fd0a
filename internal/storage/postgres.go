package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS kv_slots (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSlot stores the value as a JSONB row in PostgreSQL.
type PostgresSlot struct {
	pool *pgxpool.Pool
	key  string
}

// PostgresOptions tunes the connection pool.
type PostgresOptions struct {
	URL      string
	Key      string
	MaxConns int32
	MinConns int32

	MaxConnLifetime time.Duration
}

// OpenPostgres connects a pool, pings it and ensures the slot table exists.
func OpenPostgres(ctx context.Context, opts PostgresOptions) (*PostgresSlot, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	poolConfig.MinConns = opts.MinConns
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}

	return NewPostgresSlot(pool, opts.Key), nil
}

// NewPostgresSlot wraps an existing pool. The table must already exist.
func NewPostgresSlot(pool *pgxpool.Pool, key string) *PostgresSlot {
	return &PostgresSlot{pool: pool, key: key}
}

func (p *PostgresSlot) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT value::text FROM kv_slots WHERE key = $1`, p.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", p.key, err)
	}
	return data, nil
}

func (p *PostgresSlot) Save(ctx context.Context, data []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_slots (key, value) VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		p.key, string(data))
	if err != nil {
		return fmt.Errorf("save slot %s: %w", p.key, err)
	}
	return nil
}

func (p *PostgresSlot) Close() error {
	p.pool.Close()
	return nil
}
