package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/internal/application/billing"
	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

const company = "c1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// line 2 x 50, 10% de descuento, IVA 22%: neto 90, impuesto 19.8.
func line() dto.DocumentLineRequest {
	return dto.DocumentLineRequest{
		Description: "servicio", Quantity: d("2"), UnitPrice: d("50"),
		DiscountPercent: d("10"), TaxRatePercent: d("22"),
	}
}

// noteLine 2 x 50 sin descuento, IVA 22%: neto 100, impuesto 22.
func noteLine() dto.DocumentLineRequest {
	return dto.DocumentLineRequest{Description: "devolución", Quantity: d("2"), UnitPrice: d("50"), TaxRatePercent: d("22")}
}

func setup() (*memory.Store, *billing.InvoiceUseCase, *billing.CreditNoteUseCase) {
	store := memory.NewStore()
	log := logger.Nop()
	return store,
		billing.NewInvoiceUseCase(store, store.Invoices(), log),
		billing.NewCreditNoteUseCase(store, store.CreditNotes(), log)
}

// ─── Facturas ─────────────────────────────────────────────────────────────────

func TestCreateInvoice_TotalesYNumeracion(t *testing.T) {
	_, invoices, _ := setup()
	ctx := context.Background()

	inv, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypeSaleInvoice, CustomerID: "cli-1",
		DiscountPercent: d("10"),
		Lines:           []dto.DocumentLineRequest{line(), line()},
	})
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, accounting.FormatSequenceNumber("FV", year, 1), inv.Number)
	// neto bruto 180, descuento de documento 18 solo sobre neto; impuesto 39.6 sin descontar
	assert.True(t, inv.NetTotal.Equal(d("162")), inv.NetTotal.String())
	assert.True(t, inv.DiscountAmount.Equal(d("18")))
	assert.True(t, inv.TaxTotal.Equal(d("39.6")))
	assert.True(t, inv.GrossTotal.Equal(d("201.6")))
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, 2, inv.Lines[1].Position)
	assert.True(t, inv.Lines[0].Gross.Equal(d("109.8")))
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, inv.Date.AddDate(0, 0, 30), *inv.DueDate)

	purchase, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{Type: entity.DocumentTypePurchaseInvoice})
	require.NoError(t, err)
	assert.Equal(t, accounting.FormatSequenceNumber("FA", year, 1), purchase.Number)
	assert.True(t, purchase.GrossTotal.IsZero())

	second, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{Type: entity.DocumentTypeSaleInvoice})
	require.NoError(t, err)
	assert.Equal(t, accounting.FormatSequenceNumber("FV", year, 2), second.Number)
}

func TestCreateInvoice_Invalida(t *testing.T) {
	store, invoices, _ := setup()
	ctx := context.Background()

	_, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{Type: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := line()
	bad.DiscountPercent = d("120")
	negative := line()
	negative.Quantity = d("-1")
	_, err = invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypeSaleInvoice, DiscountPercent: d("-5"),
		Lines: []dto.DocumentLineRequest{bad, negative},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "lines[0].discount_percent")
	assert.Contains(t, verr.Fields, "lines[1].quantity")
	assert.Contains(t, verr.Fields, "discount_percent")

	n, err := store.Invoices().CountCreatedSince(ctx, company, entity.DocumentTypeSaleInvoice, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateInvoice_NumeroManualRepetido(t *testing.T) {
	_, invoices, _ := setup()
	ctx := context.Background()
	req := dto.CreateInvoiceRequest{Type: entity.DocumentTypeSaleInvoice, Number: "FV-100"}

	_, err := invoices.CreateInvoice(ctx, company, req)
	require.NoError(t, err)
	_, err = invoices.CreateInvoice(ctx, company, req)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrNumberConflict)
}

func TestUpdateInvoice_ReemplazaLineasYRecalcula(t *testing.T) {
	_, invoices, _ := setup()
	ctx := context.Background()
	inv, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypeSaleInvoice, Lines: []dto.DocumentLineRequest{line(), line()},
	})
	require.NoError(t, err)

	updated, err := invoices.UpdateInvoice(ctx, company, inv.ID, dto.UpdateInvoiceRequest{
		Lines: []dto.DocumentLineRequest{line()},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 1)
	assert.True(t, updated.GrossTotal.Equal(d("109.8")))

	stored, err := invoices.GetInvoice(ctx, company, inv.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Lines, 1)
	assert.True(t, stored.NetTotal.Equal(d("90")))

	// Solo cambia el descuento: las líneas se conservan y los totales se recalculan
	discount := d("50")
	updated, err = invoices.UpdateInvoice(ctx, company, inv.ID, dto.UpdateInvoiceRequest{DiscountPercent: &discount})
	require.NoError(t, err)
	assert.Len(t, updated.Lines, 1)
	assert.True(t, updated.NetTotal.Equal(d("45")))
	assert.True(t, updated.TaxTotal.Equal(d("19.8")))
}

func TestUpdateInvoice_FallidaSinCambios(t *testing.T) {
	_, invoices, _ := setup()
	ctx := context.Background()
	inv, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypeSaleInvoice, Lines: []dto.DocumentLineRequest{line()},
	})
	require.NoError(t, err)

	bad := line()
	bad.UnitPrice = d("-1")
	_, err = invoices.UpdateInvoice(ctx, company, inv.ID, dto.UpdateInvoiceRequest{Lines: []dto.DocumentLineRequest{bad}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := invoices.GetInvoice(ctx, company, inv.ID)
	require.NoError(t, err)
	assert.True(t, stored.GrossTotal.Equal(d("109.8")))
	assert.True(t, stored.Lines[0].UnitPrice.Equal(d("50")))
}

func TestMarkPaid(t *testing.T) {
	_, invoices, _ := setup()
	ctx := context.Background()
	past := time.Now().AddDate(0, -2, 0)
	due := past.AddDate(0, 0, 10)
	inv, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypeSaleInvoice, Date: &past, DueDate: &due,
	})
	require.NoError(t, err)
	assert.True(t, inv.Overdue)

	paid, err := invoices.MarkPaid(ctx, company, inv.ID, nil)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.Equal(t, entity.DocumentStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaymentDate)
	assert.False(t, paid.Overdue)

	_, err = invoices.MarkPaid(ctx, company, inv.ID, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)

	notes := "tarde"
	_, err = invoices.UpdateInvoice(ctx, company, inv.ID, dto.UpdateInvoiceRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = invoices.MarkPaid(ctx, company, "nope", nil)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

// ─── Notas crédito ────────────────────────────────────────────────────────────

func TestCreateCreditNote_SinDescuentoDeDocumento(t *testing.T) {
	_, invoices, notes := setup()
	ctx := context.Background()
	inv, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{Type: entity.DocumentTypeSaleInvoice})
	require.NoError(t, err)

	cn, err := notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{
		InvoiceID: inv.ID, Reason: "devolución", Lines: []dto.DocumentLineRequest{noteLine()},
	})
	require.NoError(t, err)
	assert.Equal(t, accounting.FormatSequenceNumber("NC", time.Now().Year(), 1), cn.Number)
	assert.True(t, cn.NetTotal.Equal(d("100")))
	assert.True(t, cn.GrossTotal.Equal(d("122")))

	got, err := notes.GetCreditNote(ctx, company, cn.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.InvoiceID)
}

func TestCreateCreditNote_Errores(t *testing.T) {
	_, _, notes := setup()
	ctx := context.Background()

	_, err := notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{Reason: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{Reason: "x", InvoiceID: "nope"})
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestCreditNote_RechazaDescuentoDeLinea(t *testing.T) {
	store, _, notes := setup()
	ctx := context.Background()

	_, err := notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{
		Reason: "devolución", Lines: []dto.DocumentLineRequest{noteLine(), line()},
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "lines[1].discount_percent")
	n, err := store.CreditNotes().CountCreatedSince(ctx, company, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, n, "nada se persiste")

	cn, err := notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{Reason: "devolución"})
	require.NoError(t, err)
	_, err = notes.UpdateCreditNote(ctx, company, cn.ID, dto.UpdateCreditNoteRequest{
		Lines: []dto.DocumentLineRequest{{Quantity: d("1"), UnitPrice: d("10"), DiscountAmount: d("1")}},
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "lines[0].discount_amount")
}

func TestUpdateCreditNote(t *testing.T) {
	_, _, notes := setup()
	ctx := context.Background()
	cn, err := notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{Reason: "devolución"})
	require.NoError(t, err)

	updated, err := notes.UpdateCreditNote(ctx, company, cn.ID, dto.UpdateCreditNoteRequest{
		Lines: []dto.DocumentLineRequest{noteLine(), noteLine()},
	})
	require.NoError(t, err)
	assert.True(t, updated.GrossTotal.Equal(d("244")))

	_, err = notes.UpdateCreditNote(ctx, company, "nope", dto.UpdateCreditNoteRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Consultas y borrado ──────────────────────────────────────────────────────

// seedInvoices venta vencida a cli-1, venta pagada a cli-2 y compra a prov-1, todas con line().
func seedInvoices(t *testing.T, invoices *billing.InvoiceUseCase) (overdue, paid, purchase *dto.InvoiceResponse) {
	t.Helper()
	ctx := context.Background()
	past := time.Now().AddDate(0, -2, 0)
	due := past.AddDate(0, 0, 10)
	var err error
	overdue, err = invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypeSaleInvoice, CustomerID: "cli-1", Date: &past, DueDate: &due,
		Lines: []dto.DocumentLineRequest{line()},
	})
	require.NoError(t, err)
	paid, err = invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypeSaleInvoice, CustomerID: "cli-2", Lines: []dto.DocumentLineRequest{line()},
	})
	require.NoError(t, err)
	paid, err = invoices.MarkPaid(ctx, company, paid.ID, nil)
	require.NoError(t, err)
	purchase, err = invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{
		Type: entity.DocumentTypePurchaseInvoice, SupplierID: "prov-1", Lines: []dto.DocumentLineRequest{line()},
	})
	require.NoError(t, err)
	return overdue, paid, purchase
}

func TestListInvoices_Filtros(t *testing.T) {
	_, invoices, _ := setup()
	ctx := context.Background()
	overdue, paid, purchase := seedInvoices(t, invoices)

	ids := func(items []*dto.InvoiceResponse) []string {
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.ID)
		}
		return out
	}
	tests := []struct {
		name  string
		query billing.InvoiceQuery
		want  []string
	}{
		{"todas", billing.InvoiceQuery{}, []string{overdue.ID, paid.ID, purchase.ID}},
		{"ventas", billing.InvoiceQuery{Type: entity.DocumentTypeSaleInvoice}, []string{overdue.ID, paid.ID}},
		{"por cliente", billing.InvoiceQuery{CustomerID: "cli-2"}, []string{paid.ID}},
		{"por proveedor", billing.InvoiceQuery{SupplierID: "prov-1"}, []string{purchase.ID}},
		{"vencidas", billing.InvoiceQuery{Overdue: true}, []string{overdue.ID}},
		{"cliente sin facturas", billing.InvoiceQuery{CustomerID: "cli-9"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := invoices.ListInvoices(ctx, company, tt.query)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(items))
		})
	}

	items, err := invoices.ListInvoices(ctx, company, billing.InvoiceQuery{Overdue: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Overdue)
	assert.Empty(t, items[0].Lines, "el listado no trae líneas")
	assert.True(t, items[0].GrossTotal.Equal(d("109.8")))

	_, err = invoices.ListInvoices(ctx, company, billing.InvoiceQuery{Type: "remision"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	other, err := invoices.ListInvoices(ctx, "otra-empresa", billing.InvoiceQuery{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInvoiceStats(t *testing.T) {
	_, invoices, _ := setup()
	seedInvoices(t, invoices)

	stats, err := invoices.Stats(context.Background(), company)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{entity.DocumentStatusIssued: 2, entity.DocumentStatusPaid: 1}, stats.ByStatus)
	assert.Equal(t, 1, stats.Overdue)
	assert.True(t, stats.SalesTotal.Equal(d("219.6")), stats.SalesTotal.String())
	assert.True(t, stats.PurchasesTotal.Equal(d("109.8")))
	assert.True(t, stats.Outstanding.Equal(d("109.8")), "solo la venta sin pagar")

	empty, err := invoices.Stats(context.Background(), "otra-empresa")
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.SalesTotal.IsZero())
}

func TestDeleteInvoice(t *testing.T) {
	_, invoices, notes := setup()
	ctx := context.Background()
	overdue, paid, _ := seedInvoices(t, invoices)

	err := invoices.DeleteInvoice(ctx, company, paid.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "pagada")

	cn, err := notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{
		InvoiceID: overdue.ID, Reason: "devolución", Lines: []dto.DocumentLineRequest{noteLine()},
	})
	require.NoError(t, err)
	err = invoices.DeleteInvoice(ctx, company, overdue.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentReferenced)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, notes.DeleteCreditNote(ctx, company, cn.ID))
	require.NoError(t, invoices.DeleteInvoice(ctx, company, overdue.ID))
	_, err = invoices.GetInvoice(ctx, company, overdue.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	assert.ErrorIs(t, invoices.DeleteInvoice(ctx, company, "nope"), domain.ErrDocumentNotFound)
	assert.ErrorIs(t, invoices.DeleteInvoice(ctx, "otra-empresa", paid.ID), domain.ErrDocumentNotFound)
}

func TestListCreditNotes_PorFacturaYBorrado(t *testing.T) {
	_, invoices, notes := setup()
	ctx := context.Background()
	inv, err := invoices.CreateInvoice(ctx, company, dto.CreateInvoiceRequest{Type: entity.DocumentTypeSaleInvoice})
	require.NoError(t, err)

	linked, err := notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{InvoiceID: inv.ID, Reason: "devolución"})
	require.NoError(t, err)
	_, err = notes.CreateCreditNote(ctx, company, dto.CreateCreditNoteRequest{CustomerID: "cli-1", Reason: "bonificación"})
	require.NoError(t, err)

	all, err := notes.ListCreditNotes(ctx, company, repository.CreditNoteFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byInvoice, err := notes.ListCreditNotes(ctx, company, repository.CreditNoteFilter{InvoiceID: inv.ID})
	require.NoError(t, err)
	require.Len(t, byInvoice, 1)
	assert.Equal(t, linked.ID, byInvoice[0].ID)

	byCustomer, err := notes.ListCreditNotes(ctx, company, repository.CreditNoteFilter{CustomerID: "cli-1"})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "bonificación", byCustomer[0].Reason)

	require.NoError(t, notes.DeleteCreditNote(ctx, company, linked.ID))
	byInvoice, err = notes.ListCreditNotes(ctx, company, repository.CreditNoteFilter{InvoiceID: inv.ID})
	require.NoError(t, err)
	assert.Empty(t, byInvoice)
	assert.ErrorIs(t, notes.DeleteCreditNote(ctx, company, linked.ID), domain.ErrDocumentNotFound)
}
