package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Repuestos-api/internal/application/quotation"
	"github.com/jhoicas/Repuestos-api/internal/domain"
	"github.com/jhoicas/Repuestos-api/internal/domain/repository"
)

// Asegura que TxRunner implementa quotation.TxRunner.
var _ quotation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout acota la espera por
// filas bloqueadas; 0 = esperar indefinidamente.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// RunQuotation inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunQuotation(ctx context.Context, fn func(
	quoteRepo repository.QuotationRepository,
	unitRepo repository.PartItemRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET no admite parámetros: el valor se formatea desde un Duration.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(NewQuotationRepository(tx), NewPartItemRepository(tx), NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isLockContention(err) {
			return errors.Join(&domain.ReservationContentionError{}, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
