package repositories

import (
	"context"
	"database/sql"
)

type txKey struct{}

type sqlTx interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func injectTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func (r *Repository) extractTxWrite(ctx context.Context) sqlTx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.dbWrite
}

// extractTxRead prefers the running transaction so reads inside Atomic see its writes.
func (r *Repository) extractTxRead(ctx context.Context) sqlTx {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return r.dbRead
}
