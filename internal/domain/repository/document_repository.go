package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// InvoiceFilter criterios de listado de facturas; campos vacíos no filtran.
type InvoiceFilter struct {
	Type       string
	CustomerID string
	SupplierID string
	OverdueAt  *time.Time // solo las no pagadas con vencimiento anterior a esta fecha
}

// CreditNoteFilter criterios de listado de notas crédito.
type CreditNoteFilter struct {
	InvoiceID  string
	CustomerID string
}

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas.
// GetByID carga también las líneas ordenadas por posición.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error)
	// ReplaceLines borra las líneas actuales del documento e inserta las nuevas.
	ReplaceLines(ctx context.Context, invoiceID string, lines []entity.DocumentLine) error
	CountCreatedSince(ctx context.Context, companyID, docType string, since time.Time) (int, error)
	// Delete borra la factura y sus líneas.
	Delete(ctx context.Context, companyID, id string) error
	// List devuelve cabeceras sin líneas, ordenadas por fecha y número.
	List(ctx context.Context, companyID string, filter InvoiceFilter) ([]*entity.Invoice, error)
}

// CreditNoteRepository define el puerto de persistencia para notas crédito y sus líneas.
type CreditNoteRepository interface {
	Create(ctx context.Context, note *entity.CreditNote) error
	Update(ctx context.Context, note *entity.CreditNote) error
	GetByID(ctx context.Context, companyID, id string) (*entity.CreditNote, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.CreditNote, error)
	ReplaceLines(ctx context.Context, noteID string, lines []entity.DocumentLine) error
	CountCreatedSince(ctx context.Context, companyID string, since time.Time) (int, error)
	Delete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, companyID string, filter CreditNoteFilter) ([]*entity.CreditNote, error)
	CountByInvoice(ctx context.Context, companyID, invoiceID string) (int, error)
}
