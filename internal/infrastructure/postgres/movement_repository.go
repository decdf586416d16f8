package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, number, movement_date, posting_date, reason, description,
	debit_account_id, credit_account_id, amount, document_ref, document_number,
	created_at, updated_at, created_by`

// Create persiste el movimiento. Número repetido -> domain.ErrNumberConflict.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.Number, m.MovementDate, m.PostingDate, m.Reason, nullIfEmpty(m.Description),
		m.DebitAccountID, m.CreditAccountID, m.Amount, nullIfEmpty(m.DocumentRef), nullIfEmpty(m.DocumentNumber),
		m.CreatedAt, m.UpdatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movement number %s: %w", m.Number, domain.ErrNumberConflict)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// Update reemplaza los datos del movimiento.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE movements
		SET number = $3, movement_date = $4, posting_date = $5, reason = $6, description = $7,
		    debit_account_id = $8, credit_account_id = $9, amount = $10,
		    document_ref = $11, document_number = $12, updated_at = $13
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		m.CompanyID, m.ID, m.Number, m.MovementDate, m.PostingDate, m.Reason, nullIfEmpty(m.Description),
		m.DebitAccountID, m.CreditAccountID, m.Amount,
		nullIfEmpty(m.DocumentRef), nullIfEmpty(m.DocumentNumber), m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movement number %s: %w", m.Number, domain.ErrNumberConflict)
		}
		return fmt.Errorf("update movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.MovementNotFound(m.ID)
	}
	return nil
}

// Delete elimina el movimiento.
func (r *MovementRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM movements WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.MovementNotFound(id)
	}
	return nil
}

// GetByID obtiene un movimiento; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE company_id = $1 AND id = $2`
	return r.getOne(ctx, "get movement", query, companyID, id)
}

// GetByNumber obtiene un movimiento por número; (nil, nil) si no existe.
func (r *MovementRepo) GetByNumber(ctx context.Context, companyID, number string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE company_id = $1 AND number = $2`
	return r.getOne(ctx, "get movement by number", query, companyID, number)
}

// GetForUpdate obtiene el movimiento y bloquea la fila.
func (r *MovementRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE company_id = $1 AND id = $2 FOR UPDATE`
	return r.getOne(ctx, "get movement for update", query, companyID, id)
}

// List movimientos por cuenta (débito o crédito) y rango de fechas, ordenados por fecha y número.
func (r *MovementRepo) List(ctx context.Context, companyID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.AccountID != "" {
		p := arg(f.AccountID)
		where = append(where, "(debit_account_id = "+p+" OR credit_account_id = "+p+")")
	}
	if f.From != nil {
		where = append(where, "movement_date >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "movement_date <= "+arg(*f.To))
	}
	if term := strings.TrimSpace(f.Term); term != "" {
		p := arg("%" + likeEscaper.Replace(term) + "%")
		where = append(where, "(reason ILIKE "+p+" OR number ILIKE "+p+" OR description ILIKE "+p+")")
	}
	query := `SELECT ` + movementColumns + ` FROM movements WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY movement_date, number`
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountCreatedSince movimientos creados desde since.
func (r *MovementRepo) CountCreatedSince(ctx context.Context, companyID string, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM movements WHERE company_id = $1 AND created_at >= $2`, companyID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// CountByAccount movimientos que referencian la cuenta.
func (r *MovementRepo) CountByAccount(ctx context.Context, companyID, accountID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM movements WHERE company_id = $1 AND (debit_account_id = $2 OR credit_account_id = $2)`,
		companyID, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements by account: %w", err)
	}
	return n, nil
}

func (r *MovementRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var description, docRef, docNumber, createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Number, &m.MovementDate, &m.PostingDate, &m.Reason, &description,
		&m.DebitAccountID, &m.CreditAccountID, &m.Amount, &docRef, &docNumber,
		&m.CreatedAt, &m.UpdatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	m.Description = deref(description)
	m.DocumentRef = deref(docRef)
	m.DocumentNumber = deref(docNumber)
	m.CreatedBy = deref(createdBy)
	return &m, nil
}
