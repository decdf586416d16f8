package ledger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// Operaciones reportadas a Metrics.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

const defaultNumberRetries = 5

// Config parámetros del motor de contabilización.
type Config struct {
	// NumberRetries reintentos ante conflicto de número generado (creación concurrente).
	NumberRetries int
	// Now reloj inyectable; por defecto time.Now.
	Now func() time.Time
}

// PostingUseCase contabiliza, modifica y elimina movimientos de partida doble.
// Cada operación corre en una sola transacción: bloquea las dos cuentas (SELECT FOR UPDATE),
// actualiza sus acumulados y guarda el movimiento; cualquier error hace Rollback completo.
type PostingUseCase struct {
	txRunner      TxRunner
	movementRepo  repository.MovementRepository
	accountRepo   repository.AccountRepository
	log           *logger.Logger
	metrics       Metrics
	numberRetries int
	now           func() time.Time
}

// NewPostingUseCase construye el caso de uso. metrics puede ser nil.
func NewPostingUseCase(
	txRunner TxRunner,
	movementRepo repository.MovementRepository,
	accountRepo repository.AccountRepository,
	log *logger.Logger,
	metrics Metrics,
	cfg Config,
) *PostingUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.NumberRetries <= 0 {
		cfg.NumberRetries = defaultNumberRetries
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &PostingUseCase{
		txRunner:      txRunner,
		movementRepo:  movementRepo,
		accountRepo:   accountRepo,
		log:           log,
		metrics:       metrics,
		numberRetries: cfg.NumberRetries,
		now:           cfg.Now,
	}
}

// MovementInput datos para crear un movimiento. Number vacío = se genera MOV<año><secuencia>.
// Fechas en cero = ahora.
type MovementInput struct {
	CompanyID       string
	UserID          string
	Number          string
	MovementDate    time.Time
	PostingDate     time.Time
	Reason          string
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	DocumentRef     string
	DocumentNumber  string
}

// MovementUpdate cambios parciales a un movimiento; nil = sin cambio.
type MovementUpdate struct {
	MovementDate    *time.Time
	PostingDate     *time.Time
	Reason          *string
	Description     *string
	DebitAccountID  *string
	CreditAccountID *string
	Amount          *decimal.Decimal
	DocumentRef     *string
	DocumentNumber  *string
}

// CreateMovement valida el movimiento, lo contabiliza en ambas cuentas y lo persiste.
func (uc *PostingUseCase) CreateMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if in.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	m := &entity.Movement{
		ID:              uuid.New().String(),
		CompanyID:       in.CompanyID,
		Number:          strings.TrimSpace(in.Number),
		MovementDate:    orNow(in.MovementDate, now),
		PostingDate:     orNow(in.PostingDate, now),
		Reason:          strings.TrimSpace(in.Reason),
		Description:     in.Description,
		DebitAccountID:  in.DebitAccountID,
		CreditAccountID: in.CreditAccountID,
		Amount:          in.Amount,
		DocumentRef:     in.DocumentRef,
		DocumentNumber:  in.DocumentNumber,
		CreatedAt:       now,
		UpdatedAt:       now,
		CreatedBy:       in.UserID,
	}
	// Validar fuera de la tx: un movimiento inválido nunca llega a la BD
	if err := accounting.ValidateMovement(m); err != nil {
		uc.failed(m.CompanyID, OpCreate, err)
		return nil, err
	}

	generated := m.Number == ""
	var err error
	for attempt := 0; attempt < uc.numberRetries; attempt++ {
		if generated {
			m.Number = ""
		}
		err = uc.txRunner.RunLedger(ctx, func(
			accountRepo repository.AccountRepository,
			movementRepo repository.MovementRepository,
		) error {
			if m.Number == "" {
				number, err := uc.nextNumber(ctx, movementRepo, m.CompanyID, now)
				if err != nil {
					return err
				}
				m.Number = number
			}
			if err := uc.post(ctx, accountRepo, m); err != nil {
				return err
			}
			return movementRepo.Create(ctx, m)
		})
		// Otro proceso tomó el mismo número: reintentar con un conteo nuevo
		if generated && errors.Is(err, domain.ErrNumberConflict) {
			uc.log.ForCompany(m.CompanyID).Warn().Str("number", m.Number).Int("attempt", attempt+1).Msg("número de movimiento en conflicto, reintentando")
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, domain.ErrNumberConflict) && !generated {
			err = &domain.StateError{Reason: "el número " + m.Number + " ya existe", Err: err}
		}
		uc.failed(m.CompanyID, OpCreate, err)
		return nil, err
	}

	uc.metrics.PostingRecorded(OpCreate, m.Amount)
	uc.log.ForCompany(m.CompanyID).Info().
		Str("number", m.Number).
		Str("debit_account_id", m.DebitAccountID).
		Str("credit_account_id", m.CreditAccountID).
		Str("amount", m.Amount.String()).
		Msg("movimiento contabilizado")
	return m, nil
}

// UpdateMovement anula la contabilización anterior, aplica los cambios, revalida y vuelve a
// contabilizar, todo en la misma transacción. Si la revalidación falla nada queda modificado.
func (uc *PostingUseCase) UpdateMovement(ctx context.Context, companyID, id string, in MovementUpdate) (*entity.Movement, error) {
	var updated *entity.Movement
	err := uc.txRunner.RunLedger(ctx, func(
		accountRepo repository.AccountRepository,
		movementRepo repository.MovementRepository,
	) error {
		old, err := movementRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.MovementNotFound(id)
		}
		if err := uc.reverse(ctx, accountRepo, old); err != nil {
			return err
		}

		next := *old
		in.applyTo(&next)
		next.UpdatedAt = uc.now()
		if err := accounting.ValidateMovement(&next); err != nil {
			return err
		}
		if err := uc.post(ctx, accountRepo, &next, old.DebitAccountID, old.CreditAccountID); err != nil {
			return err
		}
		if err := movementRepo.Update(ctx, &next); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		uc.failed(companyID, OpUpdate, err)
		return nil, err
	}

	uc.metrics.PostingRecorded(OpUpdate, updated.Amount)
	uc.log.ForCompany(companyID).Info().
		Str("number", updated.Number).
		Str("amount", updated.Amount.String()).
		Msg("movimiento modificado")
	return updated, nil
}

// DeleteMovement anula la contabilización del movimiento y lo elimina.
// Retorna NotFoundError si el movimiento no existe.
func (uc *PostingUseCase) DeleteMovement(ctx context.Context, companyID, id string) error {
	var deleted *entity.Movement
	err := uc.txRunner.RunLedger(ctx, func(
		accountRepo repository.AccountRepository,
		movementRepo repository.MovementRepository,
	) error {
		m, err := movementRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.MovementNotFound(id)
		}
		if err := uc.reverse(ctx, accountRepo, m); err != nil {
			return err
		}
		deleted = m
		return movementRepo.Delete(ctx, companyID, id)
	})
	if err != nil {
		uc.failed(companyID, OpDelete, err)
		return err
	}

	uc.metrics.PostingRecorded(OpDelete, deleted.Amount)
	uc.log.ForCompany(companyID).Info().
		Str("number", deleted.Number).
		Msg("movimiento eliminado")
	return nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *PostingUseCase) GetMovement(ctx context.Context, companyID, id string) (*entity.Movement, error) {
	m, err := uc.movementRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.MovementNotFound(id)
	}
	return m, nil
}

// GetMovementByNumber obtiene un movimiento por su número MOV<año><secuencia>.
func (uc *PostingUseCase) GetMovementByNumber(ctx context.Context, companyID, number string) (*entity.Movement, error) {
	m, err := uc.movementRepo.GetByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.MovementNotFound(number)
	}
	return m, nil
}

// ListMovements lista movimientos por cuenta y/o período.
func (uc *PostingUseCase) ListMovements(ctx context.Context, companyID string, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.NewValidationError("to", errors.New("la fecha final es anterior a la inicial"))
	}
	if filter.AccountID != "" {
		a, err := uc.accountRepo.GetByID(ctx, companyID, filter.AccountID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, domain.AccountNotFound(filter.AccountID)
		}
	}
	return uc.movementRepo.List(ctx, companyID, filter)
}

// SearchMovements movimientos cuya causal, número o descripción contiene term.
// Admite además los filtros de ListMovements.
func (uc *PostingUseCase) SearchMovements(ctx context.Context, companyID, term string, filter repository.MovementFilter) ([]*entity.Movement, error) {
	filter.Term = strings.TrimSpace(term)
	if filter.Term == "" {
		return nil, domain.NewValidationError("q", errors.New("el texto de búsqueda es obligatorio"))
	}
	return uc.ListMovements(ctx, companyID, filter)
}

// post bloquea ambas cuentas, verifica que existan y admitan movimientos, y suma el importe.
// Una cuenta nueva para el movimiento debe ser postable y activa. Las cuentas de keep (las que
// ya contabilizaba la versión anterior) solo deben seguir siendo postables: desactivar una cuenta
// no impide corregir los movimientos que ya tiene.
func (uc *PostingUseCase) post(ctx context.Context, accountRepo repository.AccountRepository, m *entity.Movement, keep ...string) error {
	debit, credit, err := lockPair(ctx, accountRepo, m)
	if err != nil {
		return err
	}
	accepts := func(a *entity.Account) bool {
		if slices.Contains(keep, a.ID) {
			return a.Postable
		}
		return a.CanPost()
	}
	verr := &domain.ValidationError{}
	if !accepts(debit) {
		verr.Add("debit_account_id", domain.ErrAccountNotPostable)
	}
	if !accepts(credit) {
		verr.Add("credit_account_id", domain.ErrAccountNotPostable)
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	accounting.Post(debit, credit, m.Amount)
	return saveTotals(ctx, accountRepo, debit, credit)
}

// failed cuenta la operación fallida y la registra con sus causas por campo.
func (uc *PostingUseCase) failed(companyID, op string, err error) {
	uc.metrics.PostingFailed(op)
	uc.log.ForCompany(companyID).Rejection(op, err).Msg("contabilización rechazada")
}

// reverse resta el importe de los mismos acumulados (inverso exacto de post).
// No exige que las cuentas sigan siendo postables: siempre debe poder anularse.
func (uc *PostingUseCase) reverse(ctx context.Context, accountRepo repository.AccountRepository, m *entity.Movement) error {
	debit, credit, err := lockPair(ctx, accountRepo, m)
	if err != nil {
		return err
	}
	accounting.Reverse(debit, credit, m.Amount)
	return saveTotals(ctx, accountRepo, debit, credit)
}

// nextNumber MOV<año><conteo+1>; si ese número ya existe (huecos por eliminaciones) avanza.
func (uc *PostingUseCase) nextNumber(ctx context.Context, movementRepo repository.MovementRepository, companyID string, now time.Time) (string, error) {
	count, err := movementRepo.CountCreatedSince(ctx, companyID, accounting.YearStart(now))
	if err != nil {
		return "", err
	}
	for seq := count; ; seq++ {
		number := accounting.NextMovementNumber(now, seq)
		existing, err := movementRepo.GetByNumber(ctx, companyID, number)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
}

// lockPair bloquea las dos cuentas en orden de ID para evitar interbloqueos entre transacciones.
func lockPair(ctx context.Context, accountRepo repository.AccountRepository, m *entity.Movement) (debit, credit *entity.Account, err error) {
	first, second := m.DebitAccountID, m.CreditAccountID
	if second < first {
		first, second = second, first
	}
	locked := make(map[string]*entity.Account, 2)
	for _, id := range []string{first, second} {
		a, err := accountRepo.GetForUpdate(ctx, m.CompanyID, id)
		if err != nil {
			return nil, nil, err
		}
		if a == nil {
			return nil, nil, domain.AccountNotFound(id)
		}
		locked[id] = a
	}
	return locked[m.DebitAccountID], locked[m.CreditAccountID], nil
}

func saveTotals(ctx context.Context, accountRepo repository.AccountRepository, accounts ...*entity.Account) error {
	for _, a := range accounts {
		if err := accountRepo.UpdateTotals(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (u MovementUpdate) applyTo(m *entity.Movement) {
	if u.MovementDate != nil {
		m.MovementDate = *u.MovementDate
	}
	if u.PostingDate != nil {
		m.PostingDate = *u.PostingDate
	}
	if u.Reason != nil {
		m.Reason = strings.TrimSpace(*u.Reason)
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.DebitAccountID != nil {
		m.DebitAccountID = *u.DebitAccountID
	}
	if u.CreditAccountID != nil {
		m.CreditAccountID = *u.CreditAccountID
	}
	if u.Amount != nil {
		m.Amount = *u.Amount
	}
	if u.DocumentRef != nil {
		m.DocumentRef = *u.DocumentRef
	}
	if u.DocumentNumber != nil {
		m.DocumentNumber = *u.DocumentNumber
	}
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
