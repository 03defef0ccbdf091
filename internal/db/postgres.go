package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrNoDSN = errors.New("DATABASE_URL not set")

// ConnectPostgres opens a pool, pings it and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse DATABASE_URL")
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "postgres connection failed")
	}

	log.Info("[DB] connected to PostgreSQL")

	if err := InitSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "initialize schema")
	}

	return pool, nil
}

// InitSchema creates or updates the database schema.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {

	// -------------------------------
	// ORDER RECEIPTS
	// -------------------------------
	receiptsSQL := `
		CREATE TABLE IF NOT EXISTS order_receipts (
			idempotency_key UUID PRIMARY KEY,
			session_id UUID NOT NULL,
			order_id VARCHAR(255) NOT NULL,
			restaurant_id VARCHAR(255) NOT NULL DEFAULT '',
			table_id VARCHAR(255) NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'pending',
			total_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
			item_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, receiptsSQL); err != nil {
		return err
	}

	indexSQL := `
		CREATE INDEX IF NOT EXISTS order_receipts_session_idx
		ON order_receipts (session_id, created_at DESC)
	`
	if _, err := pool.Exec(ctx, indexSQL); err != nil {
		return err
	}

	log.Info("[DB] schema initialized")
	return nil
}
