package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/internal/application/chart"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/application/reports"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

const company = "c1"

// setup siembra el plan base y contabiliza: compra de activo fijo a crédito 1000,
// venta de contado 900 y un gasto de 350 pagado desde bancos.
func setup(t *testing.T) *reports.Service {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.Nop()
	chartUC := chart.NewUseCase(store, store.Accounts(), log)
	_, err := chartUC.Seed(ctx, company)
	require.NoError(t, err)

	id := func(code string) string {
		v, err := chartUC.GetAccount(ctx, company, code)
		require.NoError(t, err)
		return v.Account.ID
	}
	posting := ledger.NewPostingUseCase(store, store.Movements(), store.Accounts(), log, nil, ledger.Config{})
	for _, m := range []struct {
		debit, credit string
		amount        int64
	}{
		{"12", "211", 1000},
		{"111", "41", 900},
		{"51", "112", 350},
	} {
		_, err := posting.CreateMovement(ctx, ledger.MovementInput{
			CompanyID: company, Reason: "prueba",
			DebitAccountID: id(m.debit), CreditAccountID: id(m.credit), Amount: decimal.NewFromInt(m.amount),
		})
		require.NoError(t, err)
	}
	return reports.NewService(store.Accounts(), log)
}

func TestBalanceSheet_SobreElLibro(t *testing.T) {
	svc := setup(t)

	bs, err := svc.BalanceSheet(context.Background(), company, time.Time{})
	require.NoError(t, err)
	// 12: +1000, 111: +900, 112: -350
	assert.Equal(t, "1550", bs.Bucket(entity.BalanceTypeAsset).Total.String())
	assert.Equal(t, "1000", bs.Bucket(entity.BalanceTypeLiability).Total.String())
	assert.Equal(t, "1000", bs.LiabilitiesAndEquity.String())
	assert.False(t, bs.AsOf.IsZero())
}

func TestIncomeStatement_SobreElLibro(t *testing.T) {
	svc := setup(t)

	is, err := svc.IncomeStatement(context.Background(), company, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "900", is.Revenue.Total.String())
	assert.Equal(t, "350", is.Expense.Total.String())
	assert.Equal(t, "550", is.NetResult.String())
	assert.Equal(t, time.January, is.From.Month())
}

func TestIncomeStatement_PeriodoInvertido(t *testing.T) {
	svc := setup(t)
	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.IncomeStatement(context.Background(), company, from, from.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummary(t *testing.T) {
	svc := setup(t)

	s, err := svc.Summary(context.Background(), company, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.NotNil(t, s.BalanceSheet)
	require.NotNil(t, s.IncomeStatement)
	assert.Equal(t, "550", s.IncomeStatement.NetResult.String())

	from := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Summary(context.Background(), company, from, from.AddDate(0, -1, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
