package billing

import (
	"errors"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

const (
	numberRetries  = 5
	defaultDueDays = 30
)

var (
	errInvalidType  = errors.New("tipo de factura no válido: sale_invoice o purchase_invoice")
	errBlankReason  = errors.New("la causal de la nota crédito es obligatoria")
	errNotEditable  = errors.New("el documento ya no se puede modificar")
	errAlreadyPaid  = errors.New("la factura ya está pagada")
	errDueBeforeDoc = errors.New("el vencimiento es anterior a la fecha de la factura")
)

// invoicePrefix FV para ventas, FA para compras.
func invoicePrefix(docType string) (string, bool) {
	switch docType {
	case entity.DocumentTypeSaleInvoice:
		return entity.PrefixSaleInvoice, true
	case entity.DocumentTypePurchaseInvoice:
		return entity.PrefixPurchaseInvoice, true
	}
	return "", false
}

// documentNumber <prefijo><año><conteo+1+intento>; el intento salta números ocupados.
func documentNumber(prefix string, now time.Time, count, attempt int) string {
	return accounting.FormatSequenceNumber(prefix, now.Year(), count+1+attempt)
}

// retryNumber repite fn mientras el número generado choque con uno existente.
func retryNumber(generated bool, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt < numberRetries; attempt++ {
		err = fn(attempt)
		if !generated || !errors.Is(err, domain.ErrNumberConflict) {
			break
		}
	}
	if errors.Is(err, domain.ErrNumberConflict) {
		return &domain.StateError{Reason: "número de documento ya asignado", Err: err}
	}
	return err
}

func orNow(t *time.Time, now time.Time) time.Time {
	if t == nil || t.IsZero() {
		return now
	}
	return *t
}
