package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ebench-backend/pkg/apperrors"
)

// WithTx runs fn inside a single transaction. Rollback on error or panic,
// commit otherwise; a failure to even begin is classified as transient so
// callers can retry.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	var tx pgx.Tx
	tx, err = pool.Begin(ctx)
	if err != nil {
		return apperrors.NewTransientStoreError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = apperrors.NewTransientStoreError(commitErr)
			}
		}
	}()

	err = fn(tx)
	return err
}
