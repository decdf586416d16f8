package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// DocumentTotals totales agregados de un documento.
// DiscountAmount es el descuento de documento aplicado sobre la suma de netos.
type DocumentTotals struct {
	Net            decimal.Decimal
	Tax            decimal.Decimal
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
}

// ComputeDocumentTotals suma las líneas y aplica el descuento de documento (porcentaje) solo al neto.
// El impuesto es la suma de los impuestos de cada línea sobre su propio neto: el descuento de
// documento no se vuelve a aplicar al impuesto. Sin líneas todos los totales son cero.
func ComputeDocumentTotals(lines []entity.DocumentLine, discountPercent decimal.Decimal) DocumentTotals {
	var rawNet, tax decimal.Decimal
	for _, line := range lines {
		lt := ComputeLineTotals(line)
		rawNet = rawNet.Add(lt.Net)
		tax = tax.Add(lt.Tax)
	}
	net := rawNet
	discount := decimal.Zero
	if discountPercent.GreaterThan(decimal.Zero) {
		discount = rawNet.Mul(discountPercent).Div(hundred)
		net = rawNet.Sub(discount)
	}
	return DocumentTotals{
		Net:            net,
		Tax:            tax,
		Gross:          net.Add(tax),
		DiscountAmount: discount,
	}
}

// ApplyInvoiceTotals recalcula y escribe los totales en caché de la factura a partir de sus líneas.
func ApplyInvoiceTotals(inv *entity.Invoice) DocumentTotals {
	t := ComputeDocumentTotals(inv.Lines, inv.DiscountPercent)
	inv.NetTotal = t.Net
	inv.TaxTotal = t.Tax
	inv.GrossTotal = t.Gross
	inv.DiscountAmount = t.DiscountAmount
	return t
}

// ApplyCreditNoteTotals recalcula los totales de la nota crédito (sin descuento de documento).
func ApplyCreditNoteTotals(cn *entity.CreditNote) DocumentTotals {
	t := ComputeDocumentTotals(cn.Lines, decimal.Zero)
	cn.NetTotal = t.Net
	cn.TaxTotal = t.Tax
	cn.GrossTotal = t.Gross
	return t
}
