// Package postgres persists applications, generated documents and profiles.
//
// Repositories take a minimal pool interface so tests can stub single rows
// without a database. Every query is user-scoped; there is no path that reads
// another user's rows.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates a pgx connection pool from the provided DSN. Startup is the
// one place connection retries are allowed: the database may still be coming
// up, so pings are retried with exponential backoff until maxElapsed.
func NewPool(ctx context.Context, dsn string, maxElapsed time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("op=db.parse_config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("op=db.new_pool: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed
	err = backoff.Retry(func() error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready, retrying", slog.Any("error", err))
			return err
		}
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("op=db.ping: %w", err)
	}
	return pool, nil
}
