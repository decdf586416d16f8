package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error se hace Rollback: saldos y movimientos quedan como estaban.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		accountRepo repository.AccountRepository,
		movementRepo repository.MovementRepository,
	) error) error
}

// Metrics registra contabilizaciones confirmadas y fallidas (create, update, delete).
type Metrics interface {
	PostingRecorded(op string, amount decimal.Decimal)
	PostingFailed(op string)
}

type nopMetrics struct{}

func (nopMetrics) PostingRecorded(string, decimal.Decimal) {}
func (nopMetrics) PostingFailed(string)                    {}
