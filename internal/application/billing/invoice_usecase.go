package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// InvoiceUseCase facturas de venta (FV) y compra (FA): líneas y totales se guardan en una sola transacción.
type InvoiceUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner TxRunner, invoiceRepo repository.InvoiceRepository, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, invoiceRepo: invoiceRepo, log: log, now: time.Now}
}

// CreateInvoice valida las líneas, calcula totales, asigna número y guarda cabecera y líneas.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	prefix, ok := invoicePrefix(in.Type)
	if !ok {
		return nil, domain.NewValidationError("type", errInvalidType)
	}
	now := uc.now()
	date := orNow(in.Date, now)
	due := date.AddDate(0, 0, defaultDueDays)
	if in.DueDate != nil {
		due = *in.DueDate
	}

	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		Type:            in.Type,
		Number:          strings.TrimSpace(in.Number),
		Date:            date,
		DueDate:         &due,
		Status:          entity.DocumentStatusIssued,
		CustomerID:      in.CustomerID,
		SupplierID:      in.SupplierID,
		Subject:         in.Subject,
		Notes:           in.Notes,
		DiscountPercent: in.DiscountPercent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	inv.Lines = dto.ToLines(inv.ID, in.Lines, newID)
	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	accounting.ApplyInvoiceTotals(inv)

	generated := inv.Number == ""
	err := retryNumber(generated, func(attempt int) error {
		return uc.txRunner.RunDocuments(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.CreditNoteRepository) error {
			if generated {
				count, err := invoiceRepo.CountCreatedSince(ctx, companyID, inv.Type, accounting.YearStart(now))
				if err != nil {
					return err
				}
				inv.Number = documentNumber(prefix, now, count, attempt)
			}
			if err := invoiceRepo.Create(ctx, inv); err != nil {
				return err
			}
			return invoiceRepo.ReplaceLines(ctx, inv.ID, inv.Lines)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("number", inv.Number).
		Str("gross_total", inv.GrossTotal.String()).
		Msg("factura creada")
	return dto.FromInvoice(inv, now), nil
}

// UpdateInvoice modifica cabecera y, si vienen líneas, las reemplaza y recalcula totales.
// Una factura pagada o anulada no se puede modificar.
func (uc *InvoiceUseCase) UpdateInvoice(ctx context.Context, companyID, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	now := uc.now()
	var inv *entity.Invoice
	err := uc.txRunner.RunDocuments(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.CreditNoteRepository) error {
		var err error
		inv, err = invoiceRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.DocumentNotFound("factura", id)
		}
		if inv.Paid || inv.Status == entity.DocumentStatusCancelled {
			return &domain.StateError{Reason: "factura " + inv.Number + ": " + errNotEditable.Error(), Err: errNotEditable}
		}
		if in.DueDate != nil {
			inv.DueDate = in.DueDate
		}
		if in.Subject != nil {
			inv.Subject = *in.Subject
		}
		if in.Notes != nil {
			inv.Notes = *in.Notes
		}
		if in.DiscountPercent != nil {
			inv.DiscountPercent = *in.DiscountPercent
		}
		if in.Lines != nil {
			inv.Lines = dto.ToLines(inv.ID, in.Lines, newID)
		}
		if err := validateInvoice(inv); err != nil {
			return err
		}
		accounting.ApplyInvoiceTotals(inv)
		inv.UpdatedAt = now
		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		if in.Lines != nil {
			return invoiceRepo.ReplaceLines(ctx, inv.ID, inv.Lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("number", inv.Number).Msg("factura modificada")
	return dto.FromInvoice(inv, now), nil
}

// MarkPaid registra el pago de la factura. paymentDate nil = hoy.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, companyID, id string, paymentDate *time.Time) (*dto.InvoiceResponse, error) {
	now := uc.now()
	var inv *entity.Invoice
	err := uc.txRunner.RunDocuments(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.CreditNoteRepository) error {
		var err error
		inv, err = invoiceRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.DocumentNotFound("factura", id)
		}
		if inv.Paid {
			return &domain.StateError{Reason: "factura " + inv.Number + ": " + errAlreadyPaid.Error(), Err: errAlreadyPaid}
		}
		paid := orNow(paymentDate, now)
		inv.Paid = true
		inv.PaymentDate = &paid
		inv.Status = entity.DocumentStatusPaid
		inv.UpdatedAt = now
		return invoiceRepo.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("number", inv.Number).Msg("factura pagada")
	return dto.FromInvoice(inv, now), nil
}

// GetInvoice obtiene la factura con sus líneas.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.DocumentNotFound("factura", id)
	}
	return dto.FromInvoice(inv, uc.now()), nil
}

// DeleteInvoice borra la factura con sus líneas. Una factura pagada o con notas crédito
// asociadas no se borra.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, companyID, id string) error {
	var number string
	err := uc.txRunner.RunDocuments(ctx, func(invoiceRepo repository.InvoiceRepository, creditNoteRepo repository.CreditNoteRepository) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.DocumentNotFound("factura", id)
		}
		number = inv.Number
		if inv.Paid {
			return &domain.StateError{Reason: "factura " + inv.Number + ": " + errAlreadyPaid.Error(), Err: errAlreadyPaid}
		}
		n, err := creditNoteRepo.CountByInvoice(ctx, companyID, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.StateError{Reason: "factura " + inv.Number + ": " + domain.ErrDocumentReferenced.Error(), Err: domain.ErrDocumentReferenced}
		}
		return invoiceRepo.Delete(ctx, companyID, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("company_id", companyID).Str("number", number).Msg("factura eliminada")
	return nil
}

// InvoiceQuery filtros del listado. Overdue=true deja solo las vencidas sin pagar a la fecha actual.
type InvoiceQuery struct {
	Type       string
	CustomerID string
	SupplierID string
	Overdue    bool
}

// ListInvoices cabeceras de facturas (sin líneas) ordenadas por fecha.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, companyID string, q InvoiceQuery) ([]*dto.InvoiceResponse, error) {
	if q.Type != "" {
		if _, ok := invoicePrefix(q.Type); !ok {
			return nil, domain.NewValidationError("type", errInvalidType)
		}
	}
	now := uc.now()
	filter := repository.InvoiceFilter{Type: q.Type, CustomerID: q.CustomerID, SupplierID: q.SupplierID}
	if q.Overdue {
		filter.OverdueAt = &now
	}
	items, err := uc.invoiceRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, dto.FromInvoice(inv, now))
	}
	return out, nil
}

// Stats cuenta las facturas por estado y suma ventas, compras y saldo por cobrar.
func (uc *InvoiceUseCase) Stats(ctx context.Context, companyID string) (*dto.InvoiceStatsResponse, error) {
	items, err := uc.invoiceRepo.List(ctx, companyID, repository.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := &dto.InvoiceStatsResponse{Total: len(items), ByStatus: make(map[string]int)}
	for _, inv := range items {
		out.ByStatus[inv.Status]++
		if inv.IsOverdue(now) {
			out.Overdue++
		}
		switch inv.Type {
		case entity.DocumentTypeSaleInvoice:
			out.SalesTotal = out.SalesTotal.Add(inv.GrossTotal)
			if !inv.Paid {
				out.Outstanding = out.Outstanding.Add(inv.GrossTotal)
			}
		case entity.DocumentTypePurchaseInvoice:
			out.PurchasesTotal = out.PurchasesTotal.Add(inv.GrossTotal)
		}
	}
	return out, nil
}

func validateInvoice(inv *entity.Invoice) error {
	verr := &domain.ValidationError{}
	verr.Merge(accounting.ValidateLines(inv.Lines))
	verr.Merge(accounting.ValidateDocumentDiscount(inv.DiscountPercent))
	if inv.DueDate != nil && inv.DueDate.Before(inv.Date) {
		verr.Add("due_date", errDueBeforeDoc)
	}
	return verr.OrNil()
}

func newID() string { return uuid.New().String() }
