package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Contabilidad-api/internal/application/billing"
	"github.com/jhoicas/Contabilidad-api/internal/application/chart"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/application/reports"
	"github.com/jhoicas/Contabilidad-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ChartUC      *chart.UseCase
	PostingUC    *ledger.PostingUseCase
	Reports      *reports.Service
	InvoiceUC    *billing.InvoiceUseCase
	CreditNoteUC *billing.CreditNoteUseCase
	Tokens       *jwt.Issuer
}

// Router registra las rutas de la API. Lectura: cualquier rol; escritura: admin o contabile.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Tokens))
	read := RequireRole(jwt.RoleAdmin, jwt.RoleAccountant, jwt.RoleViewer)
	write := RequireRole(jwt.RoleAdmin, jwt.RoleAccountant)

	// Plan de cuentas
	accountHandler := NewAccountHandler(deps.ChartUC)
	api.Post("/chart/seed", write, accountHandler.Seed)
	accounts := api.Group("/accounts")
	accounts.Get("/", read, accountHandler.List)
	accounts.Get("/tree", read, accountHandler.Tree)
	accounts.Get("/postable", read, accountHandler.Postable)
	accounts.Get("/search", read, accountHandler.Search)
	accounts.Get("/id/:id", read, accountHandler.GetByID)
	accounts.Get("/:code", read, accountHandler.GetByCode)
	accounts.Get("/:code/children", read, accountHandler.Children)
	accounts.Post("/", write, accountHandler.Create)
	accounts.Put("/:code", write, accountHandler.Update)
	accounts.Delete("/:code", write, accountHandler.Delete)

	// Movimientos
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.PostingUC)
	movements.Get("/", read, movementHandler.List)
	movements.Get("/search", read, movementHandler.Search)
	movements.Get("/:id", read, movementHandler.GetByID)
	movements.Post("/", write, movementHandler.Create)
	movements.Put("/:id", write, movementHandler.Update)
	movements.Delete("/:id", write, movementHandler.Delete)

	// Reportes
	reportGroup := api.Group("/reports", read)
	reportHandler := NewReportHandler(deps.Reports)
	reportGroup.Get("/balance-sheet", reportHandler.BalanceSheet)
	reportGroup.Get("/income-statement", reportHandler.IncomeStatement)
	reportGroup.Get("/summary", reportHandler.Summary)

	// Facturas
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/", read, invoiceHandler.List)
	invoices.Get("/stats", read, invoiceHandler.Stats)
	invoices.Post("/", write, invoiceHandler.Create)
	invoices.Get("/:id", read, invoiceHandler.GetByID)
	invoices.Put("/:id", write, invoiceHandler.Update)
	invoices.Post("/:id/pay", write, invoiceHandler.MarkPaid)
	invoices.Delete("/:id", write, invoiceHandler.Delete)

	// Notas crédito
	creditNotes := api.Group("/credit-notes")
	creditNoteHandler := NewCreditNoteHandler(deps.CreditNoteUC)
	creditNotes.Post("/", write, creditNoteHandler.Create)
	creditNotes.Get("/:id", read, creditNoteHandler.GetByID)
	creditNotes.Get("/", read, creditNoteHandler.List)
	creditNotes.Put("/:id", write, creditNoteHandler.Update)
	creditNotes.Delete("/:id", write, creditNoteHandler.Delete)
}
