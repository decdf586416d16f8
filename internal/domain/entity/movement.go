package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementNumberPrefix prefijo del consecutivo de movimientos: MOV<año><secuencia:4>.
const MovementNumberPrefix = "MOV"

// Movement representa un asiento de partida doble: Amount se debita en DebitAccountID
// y se acredita en CreditAccountID.
type Movement struct {
	ID              string
	CompanyID       string
	Number          string
	MovementDate    time.Time
	PostingDate     time.Time
	Reason          string // causal
	Description     string
	DebitAccountID  string
	CreditAccountID string
	Amount          decimal.Decimal
	DocumentRef     string // referencia libre al documento de origen
	DocumentNumber  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CreatedBy       string
}

// References indica si el movimiento toca la cuenta (débito o crédito).
func (m *Movement) References(accountID string) bool {
	return m.DebitAccountID == accountID || m.CreditAccountID == accountID
}
