package accounting_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func reportAccounts() []*entity.Account {
	return []*entity.Account{
		{ID: "a", Code: "111", BalanceType: entity.BalanceTypeAsset, Active: true, OpeningBalance: d("1000"), DebitTotal: d("500"), CreditTotal: d("200")},
		{ID: "l", Code: "211", BalanceType: entity.BalanceTypeLiability, Active: true, CreditTotal: d("700"), DebitTotal: d("100")},
		{ID: "e", Code: "31", BalanceType: entity.BalanceTypeEquity, Active: true, OpeningBalance: d("400")},
		{ID: "r", Code: "41", BalanceType: entity.BalanceTypeRevenue, Active: true, CreditTotal: d("900")},
		{ID: "x", Code: "51", BalanceType: entity.BalanceTypeExpense, Active: true, DebitTotal: d("350")},
		{ID: "i", Code: "52", BalanceType: entity.BalanceTypeExpense, Active: false, DebitTotal: d("9999")},
	}
}

func bucketTotals(bs *accounting.BalanceSheet) map[entity.BalanceType]decimal.Decimal {
	out := make(map[entity.BalanceType]decimal.Decimal)
	for t, bk := range bs.Buckets {
		out[t] = bk.Total
	}
	return out
}

func TestBuildBalanceSheet_TotalesPorTipo(t *testing.T) {
	asOf := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	bs := accounting.BuildBalanceSheet(reportAccounts(), asOf)

	want := map[entity.BalanceType]decimal.Decimal{
		entity.BalanceTypeAsset:     d("1300"),
		entity.BalanceTypeLiability: d("600"),
		entity.BalanceTypeEquity:    d("400"),
		entity.BalanceTypeRevenue:   d("900"),
		entity.BalanceTypeExpense:   d("350"),
	}
	if diff := cmp.Diff(want, bucketTotals(bs), decimalEqual); diff != "" {
		t.Errorf("totales por tipo (-want +got):\n%s", diff)
	}
	assert.True(t, bs.LiabilitiesAndEquity.Equal(d("1000")))
	assert.Equal(t, asOf, bs.AsOf)
	// La cuenta inactiva no aparece
	assert.Len(t, bs.Bucket(entity.BalanceTypeExpense).Lines, 1)
}

func TestBuildBalanceSheet_IndependienteDelOrden(t *testing.T) {
	accounts := reportAccounts()
	reversed := make([]*entity.Account, len(accounts))
	for i, a := range accounts {
		reversed[len(accounts)-1-i] = a
	}

	a := accounting.BuildBalanceSheet(accounts, time.Time{})
	b := accounting.BuildBalanceSheet(reversed, time.Time{})
	if diff := cmp.Diff(a, b, decimalEqual); diff != "" {
		t.Errorf("el orden de entrada cambia el reporte (-a +b):\n%s", diff)
	}
}

func TestBuildBalanceSheet_SinCuentas(t *testing.T) {
	bs := accounting.BuildBalanceSheet(nil, time.Time{})
	for _, bt := range entity.BalanceTypes {
		assert.True(t, bs.Bucket(bt).Total.IsZero(), bt)
	}
	assert.True(t, bs.LiabilitiesAndEquity.IsZero())
}

func TestBuildIncomeStatement_ResultadoNeto(t *testing.T) {
	from := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	is := accounting.BuildIncomeStatement(reportAccounts(), from, to)

	assert.True(t, is.Revenue.Total.Equal(d("900")))
	assert.True(t, is.Expense.Total.Equal(d("350")))
	assert.True(t, is.NetResult.Equal(d("550")))
	want := []accounting.ReportLine{{AccountID: "x", Code: "51", Balance: d("350")}}
	if diff := cmp.Diff(want, is.Expense.Lines, decimalEqual); diff != "" {
		t.Errorf("líneas de gasto (-want +got):\n%s", diff)
	}
	assert.Equal(t, from, is.From)
}
