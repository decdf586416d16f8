package billing

import (
	"context"

	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de documentos.
// Cabecera, líneas y totales se guardan juntos: si fn falla no queda ningún cambio.
type TxRunner interface {
	RunDocuments(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		creditNoteRepo repository.CreditNoteRepository,
	) error) error
}
