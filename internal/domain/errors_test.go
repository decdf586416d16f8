package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
)

func TestValidationError_UnwrapExponeCausas(t *testing.T) {
	verr := domain.NewValidationError("amount", domain.ErrNonPositiveAmount)
	verr.Add("reason", domain.ErrBlankReason)
	wrapped := fmt.Errorf("crear movimiento: %w", verr)

	assert.ErrorIs(t, wrapped, domain.ErrInvalidInput)
	assert.ErrorIs(t, wrapped, domain.ErrNonPositiveAmount)
	assert.ErrorIs(t, wrapped, domain.ErrBlankReason)
	assert.NotErrorIs(t, wrapped, domain.ErrNotFound)
	assert.Equal(t, "errores de validación: amount: el importe debe ser positivo; reason: la causal no puede estar vacía", verr.Error())
}

func TestValidationError_CausasPorCampo(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("reason", domain.ErrBlankReason)
	verr.Add("amount", domain.ErrNonPositiveAmount)

	causes := verr.Causes()
	assert.Len(t, causes, 2)
	assert.EqualError(t, causes[0], "amount: el importe debe ser positivo")
	assert.EqualError(t, causes[1], "reason: la causal no puede estar vacía")
	assert.Empty(t, (&domain.ValidationError{}).Causes())
	assert.Equal(t, "errores de validación", (&domain.ValidationError{}).Error())
}

func TestValidationError_OrNil(t *testing.T) {
	var empty domain.ValidationError
	assert.NoError(t, empty.OrNil())

	var nilErr *domain.ValidationError
	assert.NoError(t, nilErr.OrNil())
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		cause error
	}{
		{"cuenta", domain.AccountNotFound("111"), domain.ErrNotFound, domain.ErrAccountNotFound},
		{"movimiento", domain.MovementNotFound("m-1"), domain.ErrNotFound, domain.ErrMovementNotFound},
		{"ciclo", &domain.StructuralError{Code: "1", Reason: "ciclo", Err: domain.ErrHierarchyCycle}, domain.ErrStructural, domain.ErrHierarchyCycle},
		{"sembrado", &domain.StateError{Reason: "ya existe", Err: domain.ErrChartAlreadySeeded}, domain.ErrConflict, domain.ErrChartAlreadySeeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.ErrorIs(t, tt.err, tt.cause)
		})
	}

	var nf *domain.NotFoundError
	assert.True(t, errors.As(fmt.Errorf("x: %w", domain.AccountNotFound("9")), &nf))
	assert.Equal(t, "9", nf.Key)
}

func TestValidationError_Merge(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Merge(nil)
	assert.NoError(t, verr.OrNil())

	verr.Merge(domain.NewValidationError("amount", domain.ErrNonPositiveAmount))
	verr.Merge(errors.New("otro"))
	assert.Error(t, verr.OrNil())
	assert.ErrorIs(t, verr, domain.ErrNonPositiveAmount)
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, verr.Fields, "error")
}
