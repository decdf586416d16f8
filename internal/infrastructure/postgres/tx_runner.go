package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Contabilidad-api/internal/application/billing"
	"github.com/jhoicas/Contabilidad-api/internal/application/chart"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

var (
	_ ledger.TxRunner  = (*TxRunner)(nil)
	_ chart.TxRunner   = (*TxRunner)(nil)
	_ billing.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger inicia una transacción, ejecuta fn con repos de cuentas y movimientos atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewAccountRepository(tx), NewMovementRepository(tx))
	})
}

// RunChart transacción con el repositorio de cuentas (siembra y alta de cuentas).
func (r *TxRunner) RunChart(ctx context.Context, fn func(accountRepo repository.AccountRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewAccountRepository(tx))
	})
}

// RunDocuments transacción con repos de facturas y notas crédito.
func (r *TxRunner) RunDocuments(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInvoiceRepository(tx), NewCreditNoteRepository(tx))
	})
}

func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
