package accounting_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

func TestCurrentBalance_NaturalezaDebitoYCredito(t *testing.T) {
	tests := []struct {
		kind entity.BalanceType
		want string
	}{
		{entity.BalanceTypeAsset, "130"},     // 100 + 50 - 20
		{entity.BalanceTypeExpense, "130"},   // 100 + 50 - 20
		{entity.BalanceTypeLiability, "70"},  // 100 + 20 - 50
		{entity.BalanceTypeRevenue, "70"},    // 100 + 20 - 50
		{entity.BalanceTypeEquity, "70"},     // 100 + 20 - 50
	}
	for _, tt := range tests {
		a := &entity.Account{
			BalanceType:    tt.kind,
			OpeningBalance: d("100"),
			DebitTotal:     d("50"),
			CreditTotal:    d("20"),
		}
		got := accounting.CurrentBalance(a)
		assert.True(t, got.Equal(d(tt.want)), "%s: got %s, want %s", tt.kind, got, tt.want)
	}
}

// Contabilizar y anular el mismo importe deja ambas cuentas como estaban.
func TestPostReverse_IdaYVuelta(t *testing.T) {
	cash := &entity.Account{BalanceType: entity.BalanceTypeAsset, OpeningBalance: d("1000")}
	sales := &entity.Account{BalanceType: entity.BalanceTypeRevenue}
	beforeCash := accounting.CurrentBalance(cash)
	beforeSales := accounting.CurrentBalance(sales)

	accounting.Post(cash, sales, d("250.75"))
	assert.True(t, accounting.CurrentBalance(cash).Equal(d("1250.75")))
	assert.True(t, accounting.CurrentBalance(sales).Equal(d("250.75")))

	accounting.Reverse(cash, sales, d("250.75"))
	assert.True(t, accounting.CurrentBalance(cash).Equal(beforeCash))
	assert.True(t, accounting.CurrentBalance(sales).Equal(beforeSales))
	assert.True(t, cash.DebitTotal.IsZero())
	assert.True(t, sales.CreditTotal.IsZero())
}

func TestNextMovementNumber_Formato(t *testing.T) {
	now := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "MOV20250001", accounting.NextMovementNumber(now, 0))
	assert.Equal(t, "MOV20250043", accounting.NextMovementNumber(now, 42))
	assert.Equal(t, "FV20250010", accounting.FormatSequenceNumber(entity.PrefixSaleInvoice, 2025, 10))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), accounting.YearStart(now))
}
