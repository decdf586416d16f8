package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceType clasifica la cuenta y determina su naturaleza (saldo débito o crédito).
type BalanceType string

// Tipos de cuenta contable.
const (
	BalanceTypeAsset     BalanceType = "asset"     // activo, naturaleza débito
	BalanceTypeLiability BalanceType = "liability" // pasivo, naturaleza crédito
	BalanceTypeEquity    BalanceType = "equity"    // patrimonio, naturaleza crédito
	BalanceTypeRevenue   BalanceType = "revenue"   // ingreso, naturaleza crédito
	BalanceTypeExpense   BalanceType = "expense"   // gasto, naturaleza débito
)

// BalanceTypes en el orden en que se presentan en los reportes.
var BalanceTypes = []BalanceType{
	BalanceTypeAsset,
	BalanceTypeLiability,
	BalanceTypeEquity,
	BalanceTypeRevenue,
	BalanceTypeExpense,
}

// Valid indica si el tipo es uno de los cinco reconocidos.
func (t BalanceType) Valid() bool {
	switch t {
	case BalanceTypeAsset, BalanceTypeLiability, BalanceTypeEquity, BalanceTypeRevenue, BalanceTypeExpense:
		return true
	}
	return false
}

// DebitNormal indica si el saldo crece con los débitos (activo y gasto).
func (t BalanceType) DebitNormal() bool {
	return t == BalanceTypeAsset || t == BalanceTypeExpense
}

// Account representa una cuenta del plan de cuentas.
// ParentCode vacío = cuenta raíz. Postable=false = cuenta de agrupación, nunca recibe movimientos.
// DebitTotal y CreditTotal son los acumulados históricos de débitos y créditos contabilizados.
type Account struct {
	ID             string
	CompanyID      string
	Code           string
	Description    string
	BalanceType    BalanceType
	ParentCode     string
	Level          int
	Active         bool
	Postable       bool
	OpeningBalance decimal.Decimal
	DebitTotal     decimal.Decimal
	CreditTotal    decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsRoot indica si la cuenta no tiene padre.
func (a *Account) IsRoot() bool {
	return a.ParentCode == ""
}

// CanPost indica si la cuenta puede ser destino de un movimiento.
func (a *Account) CanPost() bool {
	return a.Postable && a.Active
}
