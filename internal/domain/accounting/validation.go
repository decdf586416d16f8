package accounting

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

var (
	errBlankCode        = errors.New("el código no puede estar vacío")
	errBlankDescription = errors.New("la descripción no puede estar vacía")
	errInvalidType      = errors.New("tipo de cuenta no válido")
	errSelfParent       = errors.New("la cuenta no puede ser su propio padre")
	errMissingAccount   = errors.New("la cuenta es obligatoria")
	errNegativeValue    = errors.New("el valor no puede ser negativo")
	errDiscountRange    = errors.New("el descuento debe estar entre 0 y 100")
	errNoteDiscount     = errors.New("las líneas de nota crédito no admiten descuento")
)

// ValidateMovement verifica los invariantes de un movimiento antes de persistirlo:
// cuentas distintas, importe > 0, causal no vacía. Reporta todos los campos inválidos a la vez.
func ValidateMovement(m *entity.Movement) error {
	verr := &domain.ValidationError{}
	if m.DebitAccountID == "" {
		verr.Add("debit_account_id", errMissingAccount)
	}
	if m.CreditAccountID == "" {
		verr.Add("credit_account_id", errMissingAccount)
	}
	if m.DebitAccountID != "" && m.DebitAccountID == m.CreditAccountID {
		verr.Add("accounts", domain.ErrSameAccount)
	}
	if !m.Amount.GreaterThan(decimal.Zero) {
		verr.Add("amount", domain.ErrNonPositiveAmount)
	}
	if strings.TrimSpace(m.Reason) == "" {
		verr.Add("reason", domain.ErrBlankReason)
	}
	return verr.OrNil()
}

// ValidateAccount verifica los datos obligatorios de una cuenta.
func ValidateAccount(a *entity.Account) error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(a.Code) == "" {
		verr.Add("code", errBlankCode)
	}
	if strings.TrimSpace(a.Description) == "" {
		verr.Add("description", errBlankDescription)
	}
	if !a.BalanceType.Valid() {
		verr.Add("balance_type", errInvalidType)
	}
	if a.ParentCode != "" && a.ParentCode == a.Code {
		verr.Add("parent_code", errSelfParent)
	}
	return verr.OrNil()
}

// ValidateLines verifica que las líneas tengan cantidades, precios y descuentos coherentes.
func ValidateLines(lines []entity.DocumentLine) error {
	verr := &domain.ValidationError{}
	for i, l := range lines {
		field := "lines[" + strconv.Itoa(i) + "]"
		switch {
		case l.Quantity.LessThan(decimal.Zero):
			verr.Add(field+".quantity", errNegativeValue)
		case l.UnitPrice.LessThan(decimal.Zero):
			verr.Add(field+".unit_price", errNegativeValue)
		case l.DiscountAmount.LessThan(decimal.Zero):
			verr.Add(field+".discount_amount", errNegativeValue)
		case l.TaxRatePercent.LessThan(decimal.Zero):
			verr.Add(field+".tax_rate", errNegativeValue)
		case !inPercentRange(l.DiscountPercent):
			verr.Add(field+".discount_percent", errDiscountRange)
		}
	}
	return verr.OrNil()
}

// ValidateCreditNoteLines como ValidateLines, y además la línea de una nota crédito
// vale cantidad x precio: cualquier descuento de línea se rechaza.
func ValidateCreditNoteLines(lines []entity.DocumentLine) error {
	verr := &domain.ValidationError{}
	verr.Merge(ValidateLines(lines))
	for i, l := range lines {
		field := "lines[" + strconv.Itoa(i) + "]"
		if !l.DiscountPercent.IsZero() {
			verr.Add(field+".discount_percent", errNoteDiscount)
		}
		if !l.DiscountAmount.IsZero() {
			verr.Add(field+".discount_amount", errNoteDiscount)
		}
	}
	return verr.OrNil()
}

// ValidateDocumentDiscount verifica el descuento porcentual de documento.
func ValidateDocumentDiscount(p decimal.Decimal) error {
	if !inPercentRange(p) {
		return domain.NewValidationError("discount_percent", errDiscountRange)
	}
	return nil
}

func inPercentRange(p decimal.Decimal) bool {
	return !p.LessThan(decimal.Zero) && !p.GreaterThan(hundred)
}
