package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// CurrentBalance saldo actual de la cuenta según su naturaleza.
// Activo y gasto (débito): Inicial + Débitos - Créditos.
// Pasivo, ingreso y patrimonio (crédito): Inicial + Créditos - Débitos.
func CurrentBalance(a *entity.Account) decimal.Decimal {
	if a.BalanceType.DebitNormal() {
		return a.OpeningBalance.Add(a.DebitTotal).Sub(a.CreditTotal)
	}
	return a.OpeningBalance.Add(a.CreditTotal).Sub(a.DebitTotal)
}

// Post suma el importe al acumulado débito de debit y al acumulado crédito de credit.
func Post(debit, credit *entity.Account, amount decimal.Decimal) {
	debit.DebitTotal = debit.DebitTotal.Add(amount)
	credit.CreditTotal = credit.CreditTotal.Add(amount)
}

// Reverse es el inverso exacto de Post (storno).
func Reverse(debit, credit *entity.Account, amount decimal.Decimal) {
	debit.DebitTotal = debit.DebitTotal.Sub(amount)
	credit.CreditTotal = credit.CreditTotal.Sub(amount)
}
