package chart

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// TxRunner transacciones sobre el plan de cuentas.
// RunLedger se usa cuando la operación debe consultar movimientos (editar o eliminar cuentas).
type TxRunner interface {
	RunChart(ctx context.Context, fn func(accountRepo repository.AccountRepository) error) error
	RunLedger(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		movementRepo repository.MovementRepository,
	) error) error
}
