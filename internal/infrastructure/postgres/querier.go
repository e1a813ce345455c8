package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx. Los repos lo reciben para
// funcionar igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar los scan*.
type pgxScanner interface {
	Scan(dest ...any) error
}
