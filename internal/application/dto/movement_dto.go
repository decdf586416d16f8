package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// CreateMovementRequest body para POST /api/movements. Number vacío = se genera MOV<año><secuencia>.
type CreateMovementRequest struct {
	Number          string          `json:"number,omitempty"`
	MovementDate    *time.Time      `json:"movement_date,omitempty"`
	PostingDate     *time.Time      `json:"posting_date,omitempty"`
	Reason          string          `json:"reason"`
	Description     string          `json:"description,omitempty"`
	DebitAccountID  string          `json:"debit_account_id"`
	CreditAccountID string          `json:"credit_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	DocumentRef     string          `json:"document_ref,omitempty"`
	DocumentNumber  string          `json:"document_number,omitempty"`
}

// UpdateMovementRequest body para PUT /api/movements/:id; campos omitidos no cambian.
type UpdateMovementRequest struct {
	MovementDate    *time.Time       `json:"movement_date,omitempty"`
	PostingDate     *time.Time       `json:"posting_date,omitempty"`
	Reason          *string          `json:"reason,omitempty"`
	Description     *string          `json:"description,omitempty"`
	DebitAccountID  *string          `json:"debit_account_id,omitempty"`
	CreditAccountID *string          `json:"credit_account_id,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	DocumentRef     *string          `json:"document_ref,omitempty"`
	DocumentNumber  *string          `json:"document_number,omitempty"`
}

// MovementResponse movimiento contable.
type MovementResponse struct {
	ID              string          `json:"id"`
	Number          string          `json:"number"`
	MovementDate    time.Time       `json:"movement_date"`
	PostingDate     time.Time       `json:"posting_date"`
	Reason          string          `json:"reason"`
	Description     string          `json:"description,omitempty"`
	DebitAccountID  string          `json:"debit_account_id"`
	CreditAccountID string          `json:"credit_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	DocumentRef     string          `json:"document_ref,omitempty"`
	DocumentNumber  string          `json:"document_number,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToMovementInput convierte el request en la entrada del motor de contabilización.
func (r CreateMovementRequest) ToMovementInput(companyID, userID string) ledger.MovementInput {
	in := ledger.MovementInput{
		CompanyID:       companyID,
		UserID:          userID,
		Number:          r.Number,
		Reason:          r.Reason,
		Description:     r.Description,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Amount:          r.Amount,
		DocumentRef:     r.DocumentRef,
		DocumentNumber:  r.DocumentNumber,
	}
	if r.MovementDate != nil {
		in.MovementDate = *r.MovementDate
	}
	if r.PostingDate != nil {
		in.PostingDate = *r.PostingDate
	}
	return in
}

// ToMovementUpdate convierte el request en cambios parciales.
func (r UpdateMovementRequest) ToMovementUpdate() ledger.MovementUpdate {
	return ledger.MovementUpdate{
		MovementDate:    r.MovementDate,
		PostingDate:     r.PostingDate,
		Reason:          r.Reason,
		Description:     r.Description,
		DebitAccountID:  r.DebitAccountID,
		CreditAccountID: r.CreditAccountID,
		Amount:          r.Amount,
		DocumentRef:     r.DocumentRef,
		DocumentNumber:  r.DocumentNumber,
	}
}

// FromMovement movimiento de dominio a respuesta.
func FromMovement(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		Number:          m.Number,
		MovementDate:    m.MovementDate,
		PostingDate:     m.PostingDate,
		Reason:          m.Reason,
		Description:     m.Description,
		DebitAccountID:  m.DebitAccountID,
		CreditAccountID: m.CreditAccountID,
		Amount:          m.Amount,
		DocumentRef:     m.DocumentRef,
		DocumentNumber:  m.DocumentNumber,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}
