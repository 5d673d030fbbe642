package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Gateway runs every statement in its own transaction: begin, execute,
// commit on success, roll back on error or panic. The connection taken by the
// transaction is returned to the pool on every path.
type Gateway struct {
	db *sqlx.DB
}

func NewGateway(db *sqlx.DB) *Gateway {
	return &Gateway{db: db}
}

// FetchOne scans the first row of query into dest. found is false when the
// query returned no rows.
func (g *Gateway) FetchOne(ctx context.Context, dest any, query string, args ...any) (found bool, err error) {
	err = g.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, dest, query, args...)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("db: fetch one: %w", err)
		}
		found = true
		return nil
	})
	return found, err
}

// FetchAll scans every row of query into dest, which must be a pointer to a
// slice. Rows keep the order the query yields.
func (g *Gateway) FetchAll(ctx context.Context, dest any, query string, args ...any) error {
	return g.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, dest, query, args...); err != nil {
			return fmt.Errorf("db: fetch all: %w", err)
		}
		return nil
	})
}

// Execute runs a write statement and returns the number of rows it changed.
func (g *Gateway) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := g.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("db: execute: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("db: rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// Ping checks that the store is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *Gateway) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("db: rollback: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("db: commit: %w", cErr)
		}
	}()

	return fn(tx)
}
