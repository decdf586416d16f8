package accounting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// ReportLine cuenta con su saldo actual dentro de un reporte.
type ReportLine struct {
	AccountID   string
	Code        string
	Description string
	Level       int
	Balance     decimal.Decimal
}

// Bucket agrupación de cuentas de un mismo tipo con su total.
type Bucket struct {
	Type  entity.BalanceType
	Lines []ReportLine
	Total decimal.Decimal
}

// BalanceSheet saldos de todas las cuentas activas agrupados por tipo.
// AsOf se informa pero los saldos son siempre los acumulados actuales.
type BalanceSheet struct {
	AsOf                 time.Time
	Buckets              map[entity.BalanceType]*Bucket
	LiabilitiesAndEquity decimal.Decimal
}

// Bucket devuelve la agrupación del tipo (vacía si no hay cuentas).
func (b *BalanceSheet) Bucket(t entity.BalanceType) *Bucket {
	if bk, ok := b.Buckets[t]; ok {
		return bk
	}
	return &Bucket{Type: t}
}

// IncomeStatement ingresos y gastos del período con el resultado neto.
// From/To se informan pero los saldos no se filtran por fecha.
type IncomeStatement struct {
	From, To  time.Time
	Revenue   Bucket
	Expense   Bucket
	NetResult decimal.Decimal
}

// BuildBalanceSheet agrupa las cuentas activas por tipo y suma sus saldos.
// El resultado no depende del orden de accounts: las líneas quedan ordenadas por código.
func BuildBalanceSheet(accounts []*entity.Account, asOf time.Time) *BalanceSheet {
	bs := &BalanceSheet{AsOf: asOf, Buckets: make(map[entity.BalanceType]*Bucket, len(entity.BalanceTypes))}
	for _, t := range entity.BalanceTypes {
		bs.Buckets[t] = &Bucket{Type: t}
	}
	for _, a := range accounts {
		if !a.Active {
			continue
		}
		bk, ok := bs.Buckets[a.BalanceType]
		if !ok {
			continue
		}
		bk.add(a)
	}
	for _, bk := range bs.Buckets {
		bk.sort()
	}
	bs.LiabilitiesAndEquity = bs.Bucket(entity.BalanceTypeLiability).Total.
		Add(bs.Bucket(entity.BalanceTypeEquity).Total)
	return bs
}

// BuildIncomeStatement suma ingresos y gastos activos; NetResult = ingresos - gastos.
func BuildIncomeStatement(accounts []*entity.Account, from, to time.Time) *IncomeStatement {
	is := &IncomeStatement{
		From:    from,
		To:      to,
		Revenue: Bucket{Type: entity.BalanceTypeRevenue},
		Expense: Bucket{Type: entity.BalanceTypeExpense},
	}
	for _, a := range accounts {
		if !a.Active {
			continue
		}
		switch a.BalanceType {
		case entity.BalanceTypeRevenue:
			is.Revenue.add(a)
		case entity.BalanceTypeExpense:
			is.Expense.add(a)
		}
	}
	is.Revenue.sort()
	is.Expense.sort()
	is.NetResult = is.Revenue.Total.Sub(is.Expense.Total)
	return is
}

func (b *Bucket) add(a *entity.Account) {
	balance := CurrentBalance(a)
	b.Lines = append(b.Lines, ReportLine{
		AccountID:   a.ID,
		Code:        a.Code,
		Description: a.Description,
		Level:       a.Level,
		Balance:     balance,
	})
	b.Total = b.Total.Add(balance)
}

func (b *Bucket) sort() {
	sort.Slice(b.Lines, func(i, j int) bool { return b.Lines[i].Code < b.Lines[j].Code })
}
