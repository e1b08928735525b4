package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"pulse/config"
	"pulse/logger"
)

// Querier is the subset of the pool the store issues statements
// through. Every storage round trip goes via this seam, so tests can
// substitute it and count calls.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DB wraps the connection pool and the organization directory used for
// read-time enrichment. All log store operations hang off it. It holds
// no cross-request mutable state; every method is safe for concurrent
// use and blocks only on the storage round trip.
type DB struct {
	Pool *pgxpool.Pool
	Orgs OrganizationDirectory

	q   Querier
	log zerolog.Logger
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log := logger.With("database")
	log.Info().Msg("Database connection established")

	return &DB{
		Pool: pool,
		Orgs: &pgOrganizationDirectory{pool: pool, log: logger.With("organizations")},
		q:    pool,
		log:  log,
	}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
	db.log.Info().Msg("Database connection closed")
}
