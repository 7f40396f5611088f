package db

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// PoolConfig tunes the database/sql connection pool.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

func Connect(dsn string, pool PoolConfig) (*sqlx.DB, error) {
	// Parse DSN → pgx config struct
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if PG is unreachable
	cfg.ConnectTimeout = 5 * time.Second

	// sql.DB through pgx's stdlib adapter, wrapped in sqlx for struct scanning
	db := sqlx.NewDb(stdlib.OpenDB(*cfg), "pgx")

	db.SetMaxOpenConns(pool.MaxOpen)
	db.SetMaxIdleConns(pool.MaxIdle)
	db.SetConnMaxLifetime(pool.MaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}

	var tmp int
	if err := db.QueryRow("SELECT 1").Scan(&tmp); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: health check failed: %w", err)
	}

	return db, nil
}
