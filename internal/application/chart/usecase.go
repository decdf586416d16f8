package chart

import (
	"context"
	"errors"
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

var errHasChildren = errors.New("la cuenta tiene subcuentas")

// UseCase administra el plan de cuentas: siembra, alta, edición, baja y consultas jerárquicas.
type UseCase struct {
	txRunner    TxRunner
	accountRepo repository.AccountRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso del plan de cuentas.
func NewUseCase(txRunner TxRunner, accountRepo repository.AccountRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, accountRepo: accountRepo, log: log, now: time.Now}
}

// AccountInput datos para crear una cuenta. Active nil = activa.
type AccountInput struct {
	CompanyID      string
	Code           string
	Description    string
	BalanceType    entity.BalanceType
	ParentCode     string
	Postable       bool
	Active         *bool
	OpeningBalance decimal.Decimal
}

// AccountUpdate cambios parciales; nil = sin cambio.
// Code, BalanceType, ParentCode y Postable quedan congelados mientras haya movimientos sobre la cuenta.
type AccountUpdate struct {
	Code           *string
	Description    *string
	BalanceType    *entity.BalanceType
	ParentCode     *string
	Postable       *bool
	Active         *bool
	OpeningBalance *decimal.Decimal
}

func (u AccountUpdate) touchesStructure() bool {
	return u.Code != nil || u.BalanceType != nil || u.ParentCode != nil || u.Postable != nil
}

// AccountView cuenta con su saldo actual y su ruta completa en la jerarquía.
type AccountView struct {
	Account         *entity.Account
	Balance         decimal.Decimal
	FullCode        string
	FullDescription string
}

// Seed crea el plan de cuentas base. Falla con StateError si la empresa ya tiene cuentas;
// en ese caso no se crea ninguna.
func (uc *UseCase) Seed(ctx context.Context, companyID string) ([]*entity.Account, error) {
	var created []*entity.Account
	err := uc.txRunner.RunChart(ctx, func(accountRepo repository.AccountRepository) error {
		n, err := accountRepo.Count(ctx, companyID)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.StateError{Reason: "la empresa ya tiene plan de cuentas", Err: domain.ErrChartAlreadySeeded}
		}
		now := uc.now()
		accounts := accounting.DefaultChart()
		for _, a := range accounts {
			a.ID = uuid.New().String()
			a.CompanyID = companyID
			a.CreatedAt, a.UpdatedAt = now, now
		}
		if _, err := accounting.NewChart(accounts); err != nil {
			return err
		}
		for _, a := range accounts {
			if err := accountRepo.Create(ctx, a); err != nil {
				return err
			}
		}
		created = accounts
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Int("accounts", len(created)).Msg("plan de cuentas creado")
	return created, nil
}

// CreateAccount crea una cuenta bajo ParentCode (o como raíz). El nivel se deriva del padre.
func (uc *UseCase) CreateAccount(ctx context.Context, in AccountInput) (*entity.Account, error) {
	now := uc.now()
	a := &entity.Account{
		ID:             uuid.New().String(),
		CompanyID:      in.CompanyID,
		Code:           strings.TrimSpace(in.Code),
		Description:    strings.TrimSpace(in.Description),
		BalanceType:    in.BalanceType,
		ParentCode:     strings.TrimSpace(in.ParentCode),
		Level:          1,
		Active:         in.Active == nil || *in.Active,
		Postable:       in.Postable,
		OpeningBalance: in.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := accounting.ValidateAccount(a); err != nil {
		return nil, err
	}
	err := uc.txRunner.RunChart(ctx, func(accountRepo repository.AccountRepository) error {
		existing, err := accountRepo.GetByCode(ctx, a.CompanyID, a.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.StructuralError{Code: a.Code, Reason: "código duplicado", Err: domain.ErrDuplicate}
		}
		if a.ParentCode != "" {
			parent, err := accountRepo.GetByCode(ctx, a.CompanyID, a.ParentCode)
			if err != nil {
				return err
			}
			if parent == nil {
				return &domain.StructuralError{Code: a.Code, Reason: "cuenta padre " + a.ParentCode + " inexistente"}
			}
			a.Level = parent.Level + 1
		}
		return accountRepo.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", a.CompanyID).Str("code", a.Code).Msg("cuenta creada")
	return a, nil
}

// UpdateAccount modifica una cuenta. Vuelve a verificar la estructura completa del plan
// (códigos únicos, padres existentes, sin ciclos) y recalcula niveles del subárbol.
func (uc *UseCase) UpdateAccount(ctx context.Context, companyID, code string, in AccountUpdate) (*entity.Account, error) {
	var updated *entity.Account
	err := uc.txRunner.RunLedger(ctx, func(accountRepo repository.AccountRepository, movementRepo repository.MovementRepository) error {
		all, err := accountRepo.List(ctx, companyID)
		if err != nil {
			return err
		}
		var target *entity.Account
		for _, a := range all {
			if a.Code == code {
				target = a
			}
		}
		if target == nil {
			return domain.AccountNotFound(code)
		}
		if in.touchesStructure() {
			refs, err := movementRepo.CountByAccount(ctx, companyID, target.ID)
			if err != nil {
				return err
			}
			if refs > 0 && uc.changesStructure(target, in) {
				return &domain.StateError{Reason: "la cuenta " + code + " tiene movimientos; solo se pueden cambiar descripción, estado y saldo inicial", Err: domain.ErrAccountInUse}
			}
		}

		if in.ParentCode != nil {
			current, err := accounting.NewChart(all)
			if err != nil {
				return err
			}
			if parent := strings.TrimSpace(*in.ParentCode); parent != "" && current.WouldCycle(code, parent) {
				return &domain.StructuralError{Code: code, Reason: "la cuenta " + parent + " es descendiente de " + code, Err: domain.ErrHierarchyCycle}
			}
		}

		oldCode := target.Code
		applyUpdate(target, in)
		target.UpdatedAt = uc.now()
		if err := accounting.ValidateAccount(target); err != nil {
			return err
		}
		if target.Code != oldCode {
			// Las subcuentas apuntan al código del padre
			for _, a := range all {
				if a.ParentCode == oldCode {
					a.ParentCode = target.Code
				}
			}
		}
		chart, err := accounting.NewChart(all)
		if err != nil {
			return err
		}
		for _, a := range all {
			depth, err := chart.Depth(a.Code)
			if err != nil {
				return err
			}
			changed := a == target || (a.ParentCode == target.Code && target.Code != oldCode)
			if a.Level != depth {
				a.Level = depth
				changed = true
			}
			if changed {
				if err := accountRepo.Update(ctx, a); err != nil {
					return err
				}
			}
		}
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("code", updated.Code).Msg("cuenta modificada")
	return updated, nil
}

func (uc *UseCase) changesStructure(a *entity.Account, in AccountUpdate) bool {
	return (in.Code != nil && strings.TrimSpace(*in.Code) != a.Code) ||
		(in.BalanceType != nil && *in.BalanceType != a.BalanceType) ||
		(in.ParentCode != nil && strings.TrimSpace(*in.ParentCode) != a.ParentCode) ||
		(in.Postable != nil && *in.Postable != a.Postable)
}

func applyUpdate(a *entity.Account, in AccountUpdate) {
	if in.Code != nil {
		a.Code = strings.TrimSpace(*in.Code)
	}
	if in.Description != nil {
		a.Description = strings.TrimSpace(*in.Description)
	}
	if in.BalanceType != nil {
		a.BalanceType = *in.BalanceType
	}
	if in.ParentCode != nil {
		a.ParentCode = strings.TrimSpace(*in.ParentCode)
	}
	if in.Postable != nil {
		a.Postable = *in.Postable
	}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if in.OpeningBalance != nil {
		a.OpeningBalance = *in.OpeningBalance
	}
}

// DeleteAccount elimina una cuenta sin movimientos ni subcuentas.
func (uc *UseCase) DeleteAccount(ctx context.Context, companyID, code string) error {
	err := uc.txRunner.RunLedger(ctx, func(accountRepo repository.AccountRepository, movementRepo repository.MovementRepository) error {
		a, err := accountRepo.GetByCode(ctx, companyID, code)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.AccountNotFound(code)
		}
		refs, err := movementRepo.CountByAccount(ctx, companyID, a.ID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &domain.StateError{Reason: "la cuenta " + code + " tiene movimientos asociados", Err: domain.ErrAccountInUse}
		}
		all, err := accountRepo.List(ctx, companyID)
		if err != nil {
			return err
		}
		for _, other := range all {
			if other.ParentCode == code {
				return &domain.StructuralError{Code: code, Reason: errHasChildren.Error(), Err: errHasChildren}
			}
		}
		return accountRepo.Delete(ctx, companyID, a.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("company_id", companyID).Str("code", code).Msg("cuenta eliminada")
	return nil
}

// Load carga el plan de la empresa y verifica su estructura.
func (uc *UseCase) Load(ctx context.Context, companyID string) (*accounting.Chart, error) {
	all, err := uc.accountRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return accounting.NewChart(all)
}

// GetAccount obtiene una cuenta por código con saldo y ruta completa.
func (uc *UseCase) GetAccount(ctx context.Context, companyID, code string) (*AccountView, error) {
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	a, ok := chart.Lookup(code)
	if !ok {
		return nil, domain.AccountNotFound(code)
	}
	return view(chart, a)
}

// GetAccountByID obtiene una cuenta por ID con saldo y ruta completa.
func (uc *UseCase) GetAccountByID(ctx context.Context, companyID, id string) (*AccountView, error) {
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	a, ok := chart.LookupID(id)
	if !ok {
		return nil, domain.AccountNotFound(id)
	}
	return view(chart, a)
}

// List todas las cuentas por nivel y código.
func (uc *UseCase) List(ctx context.Context, companyID string) ([]*entity.Account, error) {
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return chart.All(), nil
}

// Children subcuentas directas de code.
func (uc *UseCase) Children(ctx context.Context, companyID, code string) ([]*entity.Account, error) {
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if _, ok := chart.Lookup(code); !ok {
		return nil, domain.AccountNotFound(code)
	}
	return chart.Children(code), nil
}

// Postable cuentas que admiten movimientos.
func (uc *UseCase) Postable(ctx context.Context, companyID string) ([]*entity.Account, error) {
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return chart.Postable(), nil
}

// ByType cuentas activas de un tipo.
func (uc *UseCase) ByType(ctx context.Context, companyID string, t entity.BalanceType) ([]*entity.Account, error) {
	if !t.Valid() {
		return nil, domain.NewValidationError("balance_type", errors.New("tipo de cuenta no válido"))
	}
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return chart.ByType(t), nil
}

// Tree árbol de cuentas activas con saldos.
func (uc *UseCase) Tree(ctx context.Context, companyID string) ([]*accounting.ChartNode, error) {
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return chart.Tree(), nil
}

// Search cuentas por código o descripción.
func (uc *UseCase) Search(ctx context.Context, companyID, term string) ([]*entity.Account, error) {
	chart, err := uc.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return chart.Search(term), nil
}

func view(chart *accounting.Chart, a *entity.Account) (*AccountView, error) {
	fullCode, err := chart.FullCode(a.Code)
	if err != nil {
		return nil, err
	}
	fullDesc, err := chart.FullDescription(a.Code)
	if err != nil {
		return nil, err
	}
	return &AccountView{
		Account:         a,
		Balance:         accounting.CurrentBalance(a),
		FullCode:        fullCode,
		FullDescription: fullDesc,
	}, nil
}
