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

// CreditNoteUseCase notas crédito (NC). Los totales nunca aplican descuento de documento.
type CreditNoteUseCase struct {
	txRunner       TxRunner
	creditNoteRepo repository.CreditNoteRepository
	log            *logger.Logger
	now            func() time.Time
}

// NewCreditNoteUseCase construye el caso de uso.
func NewCreditNoteUseCase(txRunner TxRunner, creditNoteRepo repository.CreditNoteRepository, log *logger.Logger) *CreditNoteUseCase {
	return &CreditNoteUseCase{txRunner: txRunner, creditNoteRepo: creditNoteRepo, log: log, now: time.Now}
}

// CreateCreditNote crea la nota crédito; si referencia una factura, ésta debe existir.
func (uc *CreditNoteUseCase) CreateCreditNote(ctx context.Context, companyID string, in dto.CreateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	now := uc.now()
	cn := &entity.CreditNote{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Number:     strings.TrimSpace(in.Number),
		Date:       orNow(in.Date, now),
		Status:     entity.DocumentStatusIssued,
		InvoiceID:  in.InvoiceID,
		CustomerID: in.CustomerID,
		SupplierID: in.SupplierID,
		Reason:     strings.TrimSpace(in.Reason),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	cn.Lines = dto.ToLines(cn.ID, in.Lines, newID)
	if err := validateCreditNote(cn); err != nil {
		return nil, err
	}
	accounting.ApplyCreditNoteTotals(cn)

	generated := cn.Number == ""
	err := retryNumber(generated, func(attempt int) error {
		return uc.txRunner.RunDocuments(ctx, func(invoiceRepo repository.InvoiceRepository, creditNoteRepo repository.CreditNoteRepository) error {
			if cn.InvoiceID != "" {
				inv, err := invoiceRepo.GetByID(ctx, companyID, cn.InvoiceID)
				if err != nil {
					return err
				}
				if inv == nil {
					return domain.DocumentNotFound("factura", cn.InvoiceID)
				}
			}
			if generated {
				count, err := creditNoteRepo.CountCreatedSince(ctx, companyID, accounting.YearStart(now))
				if err != nil {
					return err
				}
				cn.Number = documentNumber(entity.PrefixCreditNote, now, count, attempt)
			}
			if err := creditNoteRepo.Create(ctx, cn); err != nil {
				return err
			}
			return creditNoteRepo.ReplaceLines(ctx, cn.ID, cn.Lines)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("number", cn.Number).
		Str("gross_total", cn.GrossTotal.String()).
		Msg("nota crédito creada")
	return dto.FromCreditNote(cn), nil
}

// UpdateCreditNote modifica causal y notas; si vienen líneas las reemplaza y recalcula totales.
func (uc *CreditNoteUseCase) UpdateCreditNote(ctx context.Context, companyID, id string, in dto.UpdateCreditNoteRequest) (*dto.CreditNoteResponse, error) {
	var cn *entity.CreditNote
	err := uc.txRunner.RunDocuments(ctx, func(_ repository.InvoiceRepository, creditNoteRepo repository.CreditNoteRepository) error {
		var err error
		cn, err = creditNoteRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return err
		}
		if cn == nil {
			return domain.DocumentNotFound("nota crédito", id)
		}
		if cn.Status == entity.DocumentStatusCancelled {
			return &domain.StateError{Reason: "nota crédito " + cn.Number + ": " + errNotEditable.Error(), Err: errNotEditable}
		}
		if in.Reason != nil {
			cn.Reason = strings.TrimSpace(*in.Reason)
		}
		if in.Notes != nil {
			cn.Notes = *in.Notes
		}
		if in.Lines != nil {
			cn.Lines = dto.ToLines(cn.ID, in.Lines, newID)
		}
		if err := validateCreditNote(cn); err != nil {
			return err
		}
		accounting.ApplyCreditNoteTotals(cn)
		cn.UpdatedAt = uc.now()
		if err := creditNoteRepo.Update(ctx, cn); err != nil {
			return err
		}
		if in.Lines != nil {
			return creditNoteRepo.ReplaceLines(ctx, cn.ID, cn.Lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("number", cn.Number).Msg("nota crédito modificada")
	return dto.FromCreditNote(cn), nil
}

// GetCreditNote obtiene la nota crédito con sus líneas.
func (uc *CreditNoteUseCase) GetCreditNote(ctx context.Context, companyID, id string) (*dto.CreditNoteResponse, error) {
	cn, err := uc.creditNoteRepo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if cn == nil {
		return nil, domain.DocumentNotFound("nota crédito", id)
	}
	return dto.FromCreditNote(cn), nil
}

// DeleteCreditNote borra la nota crédito con sus líneas.
func (uc *CreditNoteUseCase) DeleteCreditNote(ctx context.Context, companyID, id string) error {
	err := uc.txRunner.RunDocuments(ctx, func(_ repository.InvoiceRepository, creditNoteRepo repository.CreditNoteRepository) error {
		return creditNoteRepo.Delete(ctx, companyID, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("company_id", companyID).Str("credit_note_id", id).Msg("nota crédito eliminada")
	return nil
}

// ListCreditNotes cabeceras de notas crédito, opcionalmente de una factura o un cliente.
func (uc *CreditNoteUseCase) ListCreditNotes(ctx context.Context, companyID string, filter repository.CreditNoteFilter) ([]*dto.CreditNoteResponse, error) {
	items, err := uc.creditNoteRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CreditNoteResponse, 0, len(items))
	for _, cn := range items {
		out = append(out, dto.FromCreditNote(cn))
	}
	return out, nil
}

func validateCreditNote(cn *entity.CreditNote) error {
	verr := &domain.ValidationError{}
	verr.Merge(accounting.ValidateCreditNoteLines(cn.Lines))
	if cn.Reason == "" {
		verr.Add("reason", errBlankReason)
	}
	return verr.OrNil()
}
