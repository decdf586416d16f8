package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/application/reports"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// ReportLineResponse cuenta dentro de un reporte.
type ReportLineResponse struct {
	AccountID   string          `json:"account_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Level       int             `json:"level"`
	Balance     decimal.Decimal `json:"balance"`
}

// BucketResponse agrupación por tipo de cuenta.
type BucketResponse struct {
	Type  string               `json:"type"`
	Lines []ReportLineResponse `json:"lines"`
	Total decimal.Decimal      `json:"total"`
}

// BalanceSheetResponse balance general. as_of es informativo: los saldos son los actuales.
type BalanceSheetResponse struct {
	AsOf                 time.Time        `json:"as_of"`
	Assets               BucketResponse   `json:"assets"`
	Liabilities          BucketResponse   `json:"liabilities"`
	Equity               BucketResponse   `json:"equity"`
	LiabilitiesAndEquity decimal.Decimal  `json:"liabilities_and_equity"`
	Buckets              []BucketResponse `json:"buckets"` // los cinco tipos
}

// IncomeStatementResponse estado de resultados.
type IncomeStatementResponse struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Revenue   BucketResponse  `json:"revenue"`
	Expense   BucketResponse  `json:"expense"`
	NetResult decimal.Decimal `json:"net_result"`
}

// SummaryResponse resumen financiero.
type SummaryResponse struct {
	GeneratedAt     time.Time               `json:"generated_at"`
	BalanceSheet    BalanceSheetResponse    `json:"balance_sheet"`
	IncomeStatement IncomeStatementResponse `json:"income_statement"`
}

func fromBucket(b *accounting.Bucket) BucketResponse {
	lines := make([]ReportLineResponse, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, ReportLineResponse{
			AccountID:   l.AccountID,
			Code:        l.Code,
			Description: l.Description,
			Level:       l.Level,
			Balance:     l.Balance,
		})
	}
	return BucketResponse{Type: string(b.Type), Lines: lines, Total: b.Total}
}

// FromBalanceSheet balance general a respuesta.
func FromBalanceSheet(bs *accounting.BalanceSheet) BalanceSheetResponse {
	r := BalanceSheetResponse{
		AsOf:                 bs.AsOf,
		Assets:               fromBucket(bs.Bucket(entity.BalanceTypeAsset)),
		Liabilities:          fromBucket(bs.Bucket(entity.BalanceTypeLiability)),
		Equity:               fromBucket(bs.Bucket(entity.BalanceTypeEquity)),
		LiabilitiesAndEquity: bs.LiabilitiesAndEquity,
	}
	for _, t := range entity.BalanceTypes {
		r.Buckets = append(r.Buckets, fromBucket(bs.Bucket(t)))
	}
	return r
}

// FromIncomeStatement estado de resultados a respuesta.
func FromIncomeStatement(is *accounting.IncomeStatement) IncomeStatementResponse {
	return IncomeStatementResponse{
		From:      is.From,
		To:        is.To,
		Revenue:   fromBucket(&is.Revenue),
		Expense:   fromBucket(&is.Expense),
		NetResult: is.NetResult,
	}
}

// FromSummary resumen financiero a respuesta.
func FromSummary(s *reports.Summary) SummaryResponse {
	return SummaryResponse{
		GeneratedAt:     s.GeneratedAt,
		BalanceSheet:    FromBalanceSheet(s.BalanceSheet),
		IncomeStatement: FromIncomeStatement(s.IncomeStatement),
	}
}
