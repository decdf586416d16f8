package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento.
const (
	DocumentTypeSaleInvoice     = "sale_invoice"     // factura de venta
	DocumentTypePurchaseInvoice = "purchase_invoice" // factura de compra
	DocumentTypeCreditNote      = "credit_note"      // nota crédito
)

// Estados del documento.
const (
	DocumentStatusDraft     = "draft"
	DocumentStatusIssued    = "issued"
	DocumentStatusPaid      = "paid"
	DocumentStatusCancelled = "cancelled"
)

// Prefijos de numeración por tipo de documento.
const (
	PrefixSaleInvoice     = "FV"
	PrefixPurchaseInvoice = "FA"
	PrefixCreditNote      = "NC"
)

// DocumentLine línea de factura o nota crédito. Neto, impuesto y total se derivan, no se guardan.
type DocumentLine struct {
	ID              string
	DocumentID      string
	Position        int
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal // 0-100
	DiscountAmount  decimal.Decimal // absoluto, se resta después del porcentaje
	TaxRatePercent  decimal.Decimal
}

// Invoice cabecera de factura. NetTotal, TaxTotal y GrossTotal son caché de la última
// agregación de Lines; solo los modifica el recálculo de totales.
type Invoice struct {
	ID              string
	CompanyID       string
	Type            string
	Number          string
	Date            time.Time
	DueDate         *time.Time
	Status          string
	CustomerID      string
	SupplierID      string
	Subject         string
	Notes           string
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal // descuento de documento resultante de DiscountPercent
	NetTotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	GrossTotal      decimal.Decimal
	Paid            bool
	PaymentDate     *time.Time
	Lines           []DocumentLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsOverdue indica si la factura venció sin pagarse.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate == nil || i.Paid {
		return false
	}
	return now.After(*i.DueDate)
}

// CreditNote cabecera de nota crédito. No admite descuento de documento.
type CreditNote struct {
	ID         string
	CompanyID  string
	Number     string
	Date       time.Time
	Status     string
	InvoiceID  string
	CustomerID string
	SupplierID string
	Reason     string
	Notes      string
	NetTotal   decimal.Decimal
	TaxTotal   decimal.Decimal
	GrossTotal decimal.Decimal
	Lines      []DocumentLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
