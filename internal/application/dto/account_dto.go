package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/application/chart"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// CreateAccountRequest body para POST /api/accounts.
type CreateAccountRequest struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	BalanceType    string          `json:"balance_type"` // asset|liability|equity|revenue|expense
	ParentCode     string          `json:"parent_code,omitempty"`
	Postable       bool            `json:"postable"`
	Active         *bool           `json:"active,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// UpdateAccountRequest body para PUT /api/accounts/:code; campos omitidos no cambian.
type UpdateAccountRequest struct {
	Code           *string          `json:"code,omitempty"`
	Description    *string          `json:"description,omitempty"`
	BalanceType    *string          `json:"balance_type,omitempty"`
	ParentCode     *string          `json:"parent_code,omitempty"`
	Postable       *bool            `json:"postable,omitempty"`
	Active         *bool            `json:"active,omitempty"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// AccountResponse cuenta con saldo actual y movimiento acumulado.
type AccountResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	BalanceType     string          `json:"balance_type"`
	ParentCode      string          `json:"parent_code,omitempty"`
	Level           int             `json:"level"`
	Active          bool            `json:"active"`
	Postable        bool            `json:"postable"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	DebitTotal      decimal.Decimal `json:"debit_total"`
	CreditTotal     decimal.Decimal `json:"credit_total"`
	Balance         decimal.Decimal `json:"balance"`
	FullCode        string          `json:"full_code,omitempty"`
	FullDescription string          `json:"full_description,omitempty"`
}

// AccountNodeResponse nodo del árbol de cuentas.
type AccountNodeResponse struct {
	AccountResponse
	Children []AccountNodeResponse `json:"children,omitempty"`
}

// ToAccountInput convierte el request en la entrada del caso de uso.
func (r CreateAccountRequest) ToAccountInput(companyID string) chart.AccountInput {
	return chart.AccountInput{
		CompanyID:      companyID,
		Code:           r.Code,
		Description:    r.Description,
		BalanceType:    entity.BalanceType(r.BalanceType),
		ParentCode:     r.ParentCode,
		Postable:       r.Postable,
		Active:         r.Active,
		OpeningBalance: r.OpeningBalance,
	}
}

// ToAccountUpdate convierte el request en cambios parciales.
func (r UpdateAccountRequest) ToAccountUpdate() chart.AccountUpdate {
	u := chart.AccountUpdate{
		Code:           r.Code,
		Description:    r.Description,
		ParentCode:     r.ParentCode,
		Postable:       r.Postable,
		Active:         r.Active,
		OpeningBalance: r.OpeningBalance,
	}
	if r.BalanceType != nil {
		t := entity.BalanceType(*r.BalanceType)
		u.BalanceType = &t
	}
	return u
}

// FromAccount cuenta de dominio a respuesta.
func FromAccount(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Code:           a.Code,
		Description:    a.Description,
		BalanceType:    string(a.BalanceType),
		ParentCode:     a.ParentCode,
		Level:          a.Level,
		Active:         a.Active,
		Postable:       a.Postable,
		OpeningBalance: a.OpeningBalance,
		DebitTotal:     a.DebitTotal,
		CreditTotal:    a.CreditTotal,
		Balance:        accounting.CurrentBalance(a),
	}
}

// FromAccounts lista de cuentas a respuesta.
func FromAccounts(accounts []*entity.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, FromAccount(a))
	}
	return out
}

// FromAccountView cuenta con ruta completa.
func FromAccountView(v *chart.AccountView) AccountResponse {
	r := FromAccount(v.Account)
	r.Balance = v.Balance
	r.FullCode = v.FullCode
	r.FullDescription = v.FullDescription
	return r
}

// FromTree árbol del plan de cuentas a respuesta.
func FromTree(nodes []*accounting.ChartNode) []AccountNodeResponse {
	out := make([]AccountNodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, AccountNodeResponse{
			AccountResponse: FromAccount(n.Account),
			Children:        FromTree(n.Children),
		})
	}
	return out
}
