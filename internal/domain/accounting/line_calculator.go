package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// LineTotals importes derivados de una línea de documento.
type LineTotals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
}

// ComputeLineTotals calcula neto, impuesto y total de una línea (servicio de dominio puro).
// Neto = max(0, Cantidad * Precio * (1 - Desc%/100) - DescImporte)
// Impuesto = Neto * Tarifa/100; Total = Neto + Impuesto.
// No valida signos: cantidad y precio no negativos son responsabilidad del documento.
func ComputeLineTotals(line entity.DocumentLine) LineTotals {
	net := LineNet(line)
	tax := net.Mul(line.TaxRatePercent).Div(hundred)
	return LineTotals{Net: net, Tax: tax, Gross: net.Add(tax)}
}

// LineNet neto de la línea: primero el descuento porcentual, luego el absoluto, con piso en cero.
func LineNet(line entity.DocumentLine) decimal.Decimal {
	net := line.Quantity.Mul(line.UnitPrice)
	if line.DiscountPercent.GreaterThan(decimal.Zero) {
		net = net.Mul(decimal.NewFromInt(1).Sub(line.DiscountPercent.Div(hundred)))
	}
	if line.DiscountAmount.GreaterThan(decimal.Zero) {
		net = net.Sub(line.DiscountAmount)
	}
	if net.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return net
}
