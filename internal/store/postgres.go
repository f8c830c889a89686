package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepo is our repo implementation for postgres
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo wraps an existing pool. Call EnsureSchema before using it.
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

// NewPostgresDatabase opens a pool, verifies connectivity and creates the
// records table if it is missing
func NewPostgresDatabase(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := NewDB(ctx, connString)

	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return NewPostgresRepo(pool), nil
}

// NewDB opens a pgx pool with small steady defaults
func NewDB(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)

	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)

	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the port_scans table and its index if missing
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS port_scans (
  id BIGSERIAL PRIMARY KEY,
  host_identifier TEXT NOT NULL,
  scan_timestamp BIGINT NOT NULL,
  protocol TEXT NOT NULL,
  port INTEGER NOT NULL,
  recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_port_scans_scan_timestamp ON port_scans (scan_timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_port_scans_host_identifier ON port_scans (host_identifier)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create port_scans schema: %w", err)
		}
	}

	return nil
}

// Insert stores all records in a single transaction
func (r *PostgresRepo) Insert(ctx context.Context, records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	const query = `
INSERT INTO port_scans (host_identifier, scan_timestamp, protocol, port)
VALUES ($1, $2, $3, $4)
RETURNING id, recorded_at`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, rec := range records {
			row := tx.QueryRow(ctx, query,
				rec.HostIdentifier,
				rec.ScanTimestamp,
				rec.Protocol,
				rec.Port,
			)

			var id int64

			if err := row.Scan(&id, &rec.RecordedAt); err != nil {
				return err
			}

			rec.ID = uint(id)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("insert records: %w", err)
	}

	return nil
}

// Recent returns up to limit records, newest scan first
func (r *PostgresRepo) Recent(ctx context.Context, limit int) ([]*Record, error) {
	const query = `
SELECT id, host_identifier, scan_timestamp, protocol, port, recorded_at
FROM port_scans
ORDER BY scan_timestamp DESC, id ASC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)

	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	defer rows.Close()

	records := []*Record{}

	for rows.Next() {
		var (
			rec Record
			id  int64
		)

		if err := rows.Scan(&id, &rec.HostIdentifier, &rec.ScanTimestamp, &rec.Protocol, &rec.Port, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		rec.ID = uint(id)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	return records, nil
}

// Close closes the pool
func (r *PostgresRepo) Close() error {
	r.pool.Close()
	return nil
}
