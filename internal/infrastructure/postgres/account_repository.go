package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, company_id, code, description, balance_type, parent_code, level,
	active, postable, opening_balance, debit_total, credit_total, created_at, updated_at`

// Create persiste una cuenta nueva. Código repetido en la empresa -> StructuralError.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.CompanyID, a.Code, a.Description, string(a.BalanceType), nullIfEmpty(a.ParentCode), a.Level,
		a.Active, a.Postable, a.OpeningBalance, a.DebitTotal, a.CreditTotal, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.StructuralError{Code: a.Code, Reason: "código duplicado", Err: domain.ErrDuplicate}
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// Update actualiza los datos editables de la cuenta (no los acumulados).
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	query := `
		UPDATE accounts
		SET code = $3, description = $4, balance_type = $5, parent_code = $6, level = $7,
		    active = $8, postable = $9, opening_balance = $10, updated_at = $11
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		a.CompanyID, a.ID, a.Code, a.Description, string(a.BalanceType), nullIfEmpty(a.ParentCode), a.Level,
		a.Active, a.Postable, a.OpeningBalance, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.StructuralError{Code: a.Code, Reason: "código duplicado", Err: domain.ErrDuplicate}
		}
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.AccountNotFound(a.ID)
	}
	return nil
}

// UpdateTotals persiste los acumulados débito/crédito.
func (r *AccountRepo) UpdateTotals(ctx context.Context, a *entity.Account) error {
	query := `
		UPDATE accounts SET debit_total = $3, credit_total = $4, updated_at = now()
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, a.CompanyID, a.ID, a.DebitTotal, a.CreditTotal)
	if err != nil {
		return fmt.Errorf("update account totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.AccountNotFound(a.ID)
	}
	return nil
}

// Delete elimina la cuenta. La FK de movimientos impide borrar cuentas referenciadas.
func (r *AccountRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM accounts WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.StateError{Reason: "la cuenta tiene movimientos asociados", Err: domain.ErrAccountInUse}
		}
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.AccountNotFound(id)
	}
	return nil
}

// GetByID obtiene una cuenta por ID; (nil, nil) si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND id = $2`
	return r.getOne(ctx, "get account", query, companyID, id)
}

// GetByCode obtiene una cuenta por código; (nil, nil) si no existe.
func (r *AccountRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND code = $2`
	return r.getOne(ctx, "get account by code", query, companyID, code)
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE).
func (r *AccountRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, "get account for update", query, companyID, id)
}

// List todas las cuentas de la empresa ordenadas por código.
func (r *AccountRepo) List(ctx context.Context, companyID string) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE company_id = $1 ORDER BY code`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count número de cuentas de la empresa.
func (r *AccountRepo) Count(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE company_id = $1`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

func (r *AccountRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	var balanceType string
	var parentCode *string
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.Code, &a.Description, &balanceType, &parentCode, &a.Level,
		&a.Active, &a.Postable, &a.OpeningBalance, &a.DebitTotal, &a.CreditTotal, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.BalanceType = entity.BalanceType(balanceType)
	a.ParentCode = deref(parentCode)
	return &a, nil
}
