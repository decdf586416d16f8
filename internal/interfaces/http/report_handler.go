package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/reports"
)

// ReportHandler balance general, estado de resultados y resumen (protegido).
type ReportHandler struct {
	svc *reports.Service
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *reports.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// BalanceSheet GET /api/reports/balance-sheet?as_of=
func (h *ReportHandler) BalanceSheet(c *fiber.Ctx) error {
	asOf, err := queryDate(c, "as_of", true)
	if err != nil {
		return badQuery(c, "as_of")
	}
	bs, err := h.svc.BalanceSheet(c.Context(), GetCompanyID(c), valueOr(asOf))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromBalanceSheet(bs))
}

// IncomeStatement GET /api/reports/income-statement?from=&to=
func (h *ReportHandler) IncomeStatement(c *fiber.Ctx) error {
	from, to, bad := period(c)
	if bad != "" {
		return badQuery(c, bad)
	}
	is, err := h.svc.IncomeStatement(c.Context(), GetCompanyID(c), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromIncomeStatement(is))
}

// Summary GET /api/reports/summary?from=&to=
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	from, to, bad := period(c)
	if bad != "" {
		return badQuery(c, bad)
	}
	s, err := h.svc.Summary(c.Context(), GetCompanyID(c), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromSummary(s))
}

// period lee from/to; bad es el nombre del parámetro inválido, si lo hay.
func period(c *fiber.Ctx) (from, to time.Time, bad string) {
	f, err := queryDate(c, "from", false)
	if err != nil {
		return from, to, "from"
	}
	t, err := queryDate(c, "to", true)
	if err != nil {
		return from, to, "to"
	}
	return valueOr(f), valueOr(t), ""
}
