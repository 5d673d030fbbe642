package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/usermgmt/internal/config"
)

// Schema is the DDL for the users table.
//
//go:embed schema.sql
var Schema string

func Connect(ctx context.Context, cfg config.DBConfig) (*sqlx.DB, error) {
	// Parse DSN → pgx config struct
	pgCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if PG is unreachable
	pgCfg.ConnectTimeout = cfg.ConnectTimeout

	// Create sql.DB using pgx's stdlib adapter, wrapped in sqlx for struct scanning
	db := sqlx.NewDb(stdlib.OpenDB(*pgCfg), "pgx")

	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}

	var tmp int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&tmp); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db: health check failed: %w", err)
	}

	return db, nil
}
