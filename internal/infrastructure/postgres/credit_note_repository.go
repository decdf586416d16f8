package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

var _ repository.CreditNoteRepository = (*CreditNoteRepo)(nil)

// CreditNoteRepo implementación de CreditNoteRepository (usable con pool o tx).
type CreditNoteRepo struct {
	q Querier
}

// NewCreditNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditNoteRepository(q Querier) *CreditNoteRepo {
	return &CreditNoteRepo{q: q}
}

const creditNoteColumns = `id, company_id, number, date, status, invoice_id, customer_id, supplier_id,
	reason, notes, net_total, tax_total, gross_total, created_at, updated_at`

func (r *CreditNoteRepo) Create(ctx context.Context, n *entity.CreditNote) error {
	query := `
		INSERT INTO credit_notes (` + creditNoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.CompanyID, n.Number, n.Date, n.Status, nullIfEmpty(n.InvoiceID),
		nullIfEmpty(n.CustomerID), nullIfEmpty(n.SupplierID), n.Reason, nullIfEmpty(n.Notes),
		n.NetTotal, n.TaxTotal, n.GrossTotal, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("credit note number %s: %w", n.Number, domain.ErrNumberConflict)
		}
		if isForeignKeyViolation(err) {
			return domain.DocumentNotFound("factura", n.InvoiceID)
		}
		return fmt.Errorf("insert credit note: %w", err)
	}
	return nil
}

func (r *CreditNoteRepo) Update(ctx context.Context, n *entity.CreditNote) error {
	query := `
		UPDATE credit_notes
		SET date = $3, status = $4, invoice_id = $5, customer_id = $6, supplier_id = $7,
		    reason = $8, notes = $9, net_total = $10, tax_total = $11, gross_total = $12, updated_at = $13
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		n.CompanyID, n.ID, n.Date, n.Status, nullIfEmpty(n.InvoiceID),
		nullIfEmpty(n.CustomerID), nullIfEmpty(n.SupplierID), n.Reason, nullIfEmpty(n.Notes),
		n.NetTotal, n.TaxTotal, n.GrossTotal, n.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.DocumentNotFound("factura", n.InvoiceID)
		}
		return fmt.Errorf("update credit note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.DocumentNotFound("nota crédito", n.ID)
	}
	return nil
}

func (r *CreditNoteRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CreditNote, error) {
	return r.get(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE company_id = $1 AND id = $2`, companyID, id)
}

func (r *CreditNoteRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CreditNote, error) {
	return r.get(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

func (r *CreditNoteRepo) ReplaceLines(ctx context.Context, noteID string, lines []entity.DocumentLine) error {
	return replaceLines(ctx, r.q, "credit_note_lines", noteID, lines)
}

func (r *CreditNoteRepo) CountCreatedSince(ctx context.Context, companyID string, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM credit_notes WHERE company_id = $1 AND created_at >= $2`, companyID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count credit notes: %w", err)
	}
	return n, nil
}

func (r *CreditNoteRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM credit_notes WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete credit note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.DocumentNotFound("nota crédito", id)
	}
	return nil
}

func (r *CreditNoteRepo) List(ctx context.Context, companyID string, f repository.CreditNoteFilter) ([]*entity.CreditNote, error) {
	query := `SELECT ` + creditNoteColumns + ` FROM credit_notes WHERE company_id = $1`
	args := []any{companyID}
	if f.InvoiceID != "" {
		args = append(args, f.InvoiceID)
		query += ` AND invoice_id = $` + strconv.Itoa(len(args))
	}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		query += ` AND customer_id = $` + strconv.Itoa(len(args))
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY date, number`, args...)
	if err != nil {
		return nil, fmt.Errorf("list credit notes: %w", err)
	}
	defer rows.Close()

	var out []*entity.CreditNote
	for rows.Next() {
		n, err := scanCreditNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *CreditNoteRepo) CountByInvoice(ctx context.Context, companyID, invoiceID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM credit_notes WHERE company_id = $1 AND invoice_id = $2`, companyID, invoiceID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count credit notes by invoice: %w", err)
	}
	return n, nil
}

func (r *CreditNoteRepo) get(ctx context.Context, query string, companyID, id string) (*entity.CreditNote, error) {
	n, err := scanCreditNote(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credit note: %w", err)
	}
	lines, err := loadLines(ctx, r.q, "credit_note_lines", n.ID)
	if err != nil {
		return nil, err
	}
	n.Lines = lines
	return n, nil
}

func scanCreditNote(row pgx.Row) (*entity.CreditNote, error) {
	var n entity.CreditNote
	var invoiceID, customerID, supplierID, notes *string
	err := row.Scan(
		&n.ID, &n.CompanyID, &n.Number, &n.Date, &n.Status, &invoiceID,
		&customerID, &supplierID, &n.Reason, &notes,
		&n.NetTotal, &n.TaxTotal, &n.GrossTotal, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.InvoiceID = deref(invoiceID)
	n.CustomerID = deref(customerID)
	n.SupplierID = deref(supplierID)
	n.Notes = deref(notes)
	return &n, nil
}
