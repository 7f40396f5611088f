package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a transaction. It commits when fn succeeds and rolls
// back on error or panic; panics are re-raised.
func WithTx(ctx context.Context, db *sqlx.DB, opts *sql.TxOptions, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(tx)
}
