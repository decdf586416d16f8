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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, type, number, date, due_date, status, customer_id, supplier_id,
	subject, notes, discount_percent, discount_amount, net_total, tax_total, gross_total,
	paid, payment_date, created_at, updated_at`

// Create persiste la cabecera; las líneas se guardan con ReplaceLines en la misma tx.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.Type, inv.Number, inv.Date, inv.DueDate, inv.Status,
		nullIfEmpty(inv.CustomerID), nullIfEmpty(inv.SupplierID), nullIfEmpty(inv.Subject), nullIfEmpty(inv.Notes),
		inv.DiscountPercent, inv.DiscountAmount, inv.NetTotal, inv.TaxTotal, inv.GrossTotal,
		inv.Paid, inv.PaymentDate, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.Number, domain.ErrNumberConflict)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update actualiza la cabecera; las líneas se reemplazan con ReplaceLines.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET date = $3, due_date = $4, status = $5, customer_id = $6, supplier_id = $7,
		    subject = $8, notes = $9, discount_percent = $10, discount_amount = $11,
		    net_total = $12, tax_total = $13, gross_total = $14,
		    paid = $15, payment_date = $16, updated_at = $17
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		inv.CompanyID, inv.ID, inv.Date, inv.DueDate, inv.Status,
		nullIfEmpty(inv.CustomerID), nullIfEmpty(inv.SupplierID), nullIfEmpty(inv.Subject), nullIfEmpty(inv.Notes),
		inv.DiscountPercent, inv.DiscountAmount, inv.NetTotal, inv.TaxTotal, inv.GrossTotal,
		inv.Paid, inv.PaymentDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.DocumentNotFound("factura", inv.ID)
	}
	return nil
}

// GetByID obtiene la factura con sus líneas; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id)
}

// GetForUpdate como GetByID pero bloquea la cabecera.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// ReplaceLines borra e inserta las líneas de la factura.
func (r *InvoiceRepo) ReplaceLines(ctx context.Context, invoiceID string, lines []entity.DocumentLine) error {
	return replaceLines(ctx, r.q, "invoice_lines", invoiceID, lines)
}

// CountCreatedSince facturas de un tipo creadas desde since (para el consecutivo).
func (r *InvoiceRepo) CountCreatedSince(ctx context.Context, companyID, docType string, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE company_id = $1 AND type = $2 AND created_at >= $3`,
		companyID, docType, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// Delete borra la factura; las líneas caen por ON DELETE CASCADE.
// Una nota crédito que la referencia bloquea el borrado (FK).
func (r *InvoiceRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.StateError{Reason: "factura " + id + ": " + domain.ErrDocumentReferenced.Error(), Err: domain.ErrDocumentReferenced}
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.DocumentNotFound("factura", id)
	}
	return nil
}

// List cabeceras filtradas, sin líneas.
func (r *InvoiceRepo) List(ctx context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		where = append(where, "type = "+arg(f.Type))
	}
	if f.CustomerID != "" {
		where = append(where, "customer_id = "+arg(f.CustomerID))
	}
	if f.SupplierID != "" {
		where = append(where, "supplier_id = "+arg(f.SupplierID))
	}
	if f.OverdueAt != nil {
		where = append(where, "NOT paid AND due_date IS NOT NULL AND due_date < "+arg(*f.OverdueAt))
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date, number`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *InvoiceRepo) get(ctx context.Context, query string, companyID, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := loadLines(ctx, r.q, "invoice_lines", inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return inv, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var customerID, supplierID, subject, notes *string
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.Type, &inv.Number, &inv.Date, &inv.DueDate, &inv.Status,
		&customerID, &supplierID, &subject, &notes,
		&inv.DiscountPercent, &inv.DiscountAmount, &inv.NetTotal, &inv.TaxTotal, &inv.GrossTotal,
		&inv.Paid, &inv.PaymentDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CustomerID = deref(customerID)
	inv.SupplierID = deref(supplierID)
	inv.Subject = deref(subject)
	inv.Notes = deref(notes)
	return &inv, nil
}
