package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// MovementFilter criterios de listado; campos vacíos no filtran.
type MovementFilter struct {
	AccountID string
	From, To  *time.Time // sobre MovementDate, inclusivos
	Term      string     // texto en causal, número o descripción, sin distinguir mayúsculas
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia para movimientos contables.
// Create devuelve domain.ErrNumberConflict si el número ya existe.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	Update(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, companyID, id string) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Movement, error)
	GetByNumber(ctx context.Context, companyID, number string) (*entity.Movement, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Movement, error)
	List(ctx context.Context, companyID string, filter MovementFilter) ([]*entity.Movement, error)
	// CountCreatedSince cuenta los movimientos creados desde since (base del consecutivo anual).
	CountCreatedSince(ctx context.Context, companyID string, since time.Time) (int, error)
	CountByAccount(ctx context.Context, companyID, accountID string) (int, error)
}
