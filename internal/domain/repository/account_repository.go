package repository

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas contables.
// Los Get devuelven (nil, nil) cuando la cuenta no existe.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	Update(ctx context.Context, account *entity.Account) error
	// UpdateTotals persiste solo los acumulados débito/crédito.
	UpdateTotals(ctx context.Context, account *entity.Account) error
	Delete(ctx context.Context, companyID, id string) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Account, error)
	GetByCode(ctx context.Context, companyID, code string) (*entity.Account, error)
	// GetForUpdate bloquea la fila de la cuenta hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Account, error)
	List(ctx context.Context, companyID string) ([]*entity.Account, error)
	Count(ctx context.Context, companyID string) (int, error)
}
