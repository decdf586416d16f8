package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// DocumentLineRequest línea de factura o nota crédito.
type DocumentLineRequest struct {
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Type: sale_invoice (FV) o purchase_invoice (FA). Number vacío = se genera.
type CreateInvoiceRequest struct {
	Type            string                `json:"type"`
	Number          string                `json:"number,omitempty"`
	Date            *time.Time            `json:"date,omitempty"`
	DueDate         *time.Time            `json:"due_date,omitempty"` // por defecto fecha + 30 días
	CustomerID      string                `json:"customer_id,omitempty"`
	SupplierID      string                `json:"supplier_id,omitempty"`
	Subject         string                `json:"subject,omitempty"`
	Notes           string                `json:"notes,omitempty"`
	DiscountPercent decimal.Decimal       `json:"discount_percent"`
	Lines           []DocumentLineRequest `json:"lines"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Lines no nil = reemplaza todas las líneas.
type UpdateInvoiceRequest struct {
	DueDate         *time.Time            `json:"due_date,omitempty"`
	Subject         *string               `json:"subject,omitempty"`
	Notes           *string               `json:"notes,omitempty"`
	DiscountPercent *decimal.Decimal      `json:"discount_percent,omitempty"`
	Lines           []DocumentLineRequest `json:"lines,omitempty"`
}

// MarkPaidRequest body para POST /api/invoices/:id/pay. PaymentDate vacío = hoy.
type MarkPaidRequest struct {
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

// CreateCreditNoteRequest body para POST /api/credit-notes. No admite descuento de documento.
type CreateCreditNoteRequest struct {
	Number     string                `json:"number,omitempty"`
	Date       *time.Time            `json:"date,omitempty"`
	InvoiceID  string                `json:"invoice_id,omitempty"`
	CustomerID string                `json:"customer_id,omitempty"`
	SupplierID string                `json:"supplier_id,omitempty"`
	Reason     string                `json:"reason"`
	Notes      string                `json:"notes,omitempty"`
	Lines      []DocumentLineRequest `json:"lines"`
}

// UpdateCreditNoteRequest body para PUT /api/credit-notes/:id.
type UpdateCreditNoteRequest struct {
	Reason *string               `json:"reason,omitempty"`
	Notes  *string               `json:"notes,omitempty"`
	Lines  []DocumentLineRequest `json:"lines,omitempty"`
}

// DocumentLineResponse línea con sus importes derivados.
type DocumentLineResponse struct {
	ID              string          `json:"id"`
	Position        int             `json:"position"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxRatePercent  decimal.Decimal `json:"tax_rate"`
	Net             decimal.Decimal `json:"net"`
	Tax             decimal.Decimal `json:"tax"`
	Gross           decimal.Decimal `json:"gross"`
}

// InvoiceResponse factura con líneas para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              string                 `json:"id"`
	CompanyID       string                 `json:"company_id"`
	Type            string                 `json:"type"`
	Number          string                 `json:"number"`
	Date            time.Time              `json:"date"`
	DueDate         *time.Time             `json:"due_date,omitempty"`
	Status          string                 `json:"status"`
	CustomerID      string                 `json:"customer_id,omitempty"`
	SupplierID      string                 `json:"supplier_id,omitempty"`
	Subject         string                 `json:"subject,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	DiscountPercent decimal.Decimal        `json:"discount_percent"`
	DiscountAmount  decimal.Decimal        `json:"discount_amount"`
	NetTotal        decimal.Decimal        `json:"net_total"`
	TaxTotal        decimal.Decimal        `json:"tax_total"`
	GrossTotal      decimal.Decimal        `json:"gross_total"`
	Paid            bool                   `json:"paid"`
	PaymentDate     *time.Time             `json:"payment_date,omitempty"`
	Overdue         bool                   `json:"overdue"`
	Lines           []DocumentLineResponse `json:"lines"`
}

// CreditNoteResponse nota crédito con líneas.
type CreditNoteResponse struct {
	ID         string                 `json:"id"`
	CompanyID  string                 `json:"company_id"`
	Number     string                 `json:"number"`
	Date       time.Time              `json:"date"`
	Status     string                 `json:"status"`
	InvoiceID  string                 `json:"invoice_id,omitempty"`
	CustomerID string                 `json:"customer_id,omitempty"`
	SupplierID string                 `json:"supplier_id,omitempty"`
	Reason     string                 `json:"reason"`
	Notes      string                 `json:"notes,omitempty"`
	NetTotal   decimal.Decimal        `json:"net_total"`
	TaxTotal   decimal.Decimal        `json:"tax_total"`
	GrossTotal decimal.Decimal        `json:"gross_total"`
	Lines      []DocumentLineResponse `json:"lines"`
}

// InvoiceStatsResponse resumen de facturación de la empresa (GET /api/invoices/stats).
type InvoiceStatsResponse struct {
	Total          int             `json:"total"`
	ByStatus       map[string]int  `json:"by_status"`
	Overdue        int             `json:"overdue"`
	SalesTotal     decimal.Decimal `json:"sales_total"`
	PurchasesTotal decimal.Decimal `json:"purchases_total"`
	Outstanding    decimal.Decimal `json:"outstanding"` // bruto de facturas de venta sin pagar
}

// ToLines convierte las líneas del request en líneas de dominio numeradas desde 1.
func ToLines(documentID string, in []DocumentLineRequest, newID func() string) []entity.DocumentLine {
	lines := make([]entity.DocumentLine, 0, len(in))
	for i, l := range in {
		lines = append(lines, entity.DocumentLine{
			ID:              newID(),
			DocumentID:      documentID,
			Position:        i + 1,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			DiscountAmount:  l.DiscountAmount,
			TaxRatePercent:  l.TaxRatePercent,
		})
	}
	return lines
}

// FromLines líneas de dominio con importes derivados.
func FromLines(lines []entity.DocumentLine) []DocumentLineResponse {
	out := make([]DocumentLineResponse, 0, len(lines))
	for _, l := range lines {
		t := accounting.ComputeLineTotals(l)
		out = append(out, DocumentLineResponse{
			ID:              l.ID,
			Position:        l.Position,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			DiscountAmount:  l.DiscountAmount,
			TaxRatePercent:  l.TaxRatePercent,
			Net:             t.Net,
			Tax:             t.Tax,
			Gross:           t.Gross,
		})
	}
	return out
}

// FromInvoice factura de dominio a respuesta; now define si está vencida.
func FromInvoice(inv *entity.Invoice, now time.Time) *InvoiceResponse {
	return &InvoiceResponse{
		ID:              inv.ID,
		CompanyID:       inv.CompanyID,
		Type:            inv.Type,
		Number:          inv.Number,
		Date:            inv.Date,
		DueDate:         inv.DueDate,
		Status:          inv.Status,
		CustomerID:      inv.CustomerID,
		SupplierID:      inv.SupplierID,
		Subject:         inv.Subject,
		Notes:           inv.Notes,
		DiscountPercent: inv.DiscountPercent,
		DiscountAmount:  inv.DiscountAmount,
		NetTotal:        inv.NetTotal,
		TaxTotal:        inv.TaxTotal,
		GrossTotal:      inv.GrossTotal,
		Paid:            inv.Paid,
		PaymentDate:     inv.PaymentDate,
		Overdue:         inv.IsOverdue(now),
		Lines:           FromLines(inv.Lines),
	}
}

// FromCreditNote nota crédito de dominio a respuesta.
func FromCreditNote(cn *entity.CreditNote) *CreditNoteResponse {
	return &CreditNoteResponse{
		ID:         cn.ID,
		CompanyID:  cn.CompanyID,
		Number:     cn.Number,
		Date:       cn.Date,
		Status:     cn.Status,
		InvoiceID:  cn.InvoiceID,
		CustomerID: cn.CustomerID,
		SupplierID: cn.SupplierID,
		Reason:     cn.Reason,
		Notes:      cn.Notes,
		NetTotal:   cn.NetTotal,
		TaxTotal:   cn.TaxTotal,
		GrossTotal: cn.GrossTotal,
		Lines:      FromLines(cn.Lines),
	}
}
