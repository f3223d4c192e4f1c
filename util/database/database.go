package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// DB wraps a pgx pool and its database/sql adapter. Repositories work
// against SQL so transactions stay plain *sql.Tx.
type DB struct {
	Pool *pgxpool.Pool
	SQL  *sql.DB
}

func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db := stdlib.OpenDBFromPool(pool)
	if err := db.PingContext(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{Pool: pool, SQL: db}, nil
}

func (d *DB) Close() {
	_ = d.SQL.Close()
	d.Pool.Close()
}
