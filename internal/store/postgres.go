// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package store provides the PostgreSQL connection pool and schema
// migrations backing every repository.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// pingBackoff bounds the startup wait for the database. Fibonacci backoff
// capped at 5s, giving up after a minute.
const (
	pingBackoffBase = 500 * time.Millisecond
	pingBackoffCap  = 5 * time.Second
	pingTimeout     = time.Minute
)

// Connect opens a pgx connection pool and waits for the database to accept
// a ping, retrying with backoff. Startup ordering between the service and
// the database is not guaranteed in any deployment we run.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, oops.Code("STORE_INVALID_DSN").Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("STORE_CONNECT_FAILED").Wrap(err)
	}

	backoff := retry.WithCappedDuration(pingBackoffCap, retry.NewFibonacci(pingBackoffBase))
	backoff = retry.WithMaxDuration(pingTimeout, backoff)

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_PING_FAILED").Wrap(err)
	}

	return pool, nil
}
