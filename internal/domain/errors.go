package domain

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

// Errores de dominio (sin dependencias externas de infraestructura).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrStructural   = errors.New("estructura del plan de cuentas inválida")
)

// Causas específicas del núcleo contable.
var (
	ErrAccountNotFound    = errors.New("cuenta contable no encontrada")
	ErrAccountNotPostable = errors.New("la cuenta no admite movimientos")
	ErrMovementNotFound   = errors.New("movimiento contable no encontrado")
	ErrDocumentNotFound   = errors.New("documento no encontrado")
	ErrSameAccount        = errors.New("la cuenta débito y la cuenta crédito no pueden ser iguales")
	ErrNonPositiveAmount  = errors.New("el importe debe ser positivo")
	ErrBlankReason        = errors.New("la causal no puede estar vacía")
	ErrHierarchyCycle     = errors.New("ciclo en la jerarquía de cuentas")
	ErrChartAlreadySeeded = errors.New("el plan de cuentas ya existe")
	ErrAccountInUse       = errors.New("la cuenta tiene movimientos asociados")
	ErrNumberConflict     = errors.New("número de movimiento ya asignado")
	ErrDocumentReferenced = errors.New("el documento tiene notas crédito asociadas")
)

// ValidationError datos que violan un invariante; el caller puede corregir la entrada.
// Fields asocia cada campo con su causa; Unwrap expone ErrInvalidInput y todas las causas.
type ValidationError struct {
	Fields map[string]error
}

// NewValidationError crea un ValidationError con un único campo.
func NewValidationError(field string, cause error) *ValidationError {
	return &ValidationError{Fields: map[string]error{field: cause}}
}

// Add registra la causa de un campo (la última gana).
func (e *ValidationError) Add(field string, cause error) {
	if e.Fields == nil {
		e.Fields = make(map[string]error)
	}
	e.Fields[field] = cause
}

// Merge incorpora los campos de otro ValidationError; cualquier otro error se registra bajo "error".
func (e *ValidationError) Merge(err error) {
	if err == nil {
		return
	}
	var other *ValidationError
	if !errors.As(err, &other) {
		e.Add("error", err)
		return
	}
	for k, v := range other.Fields {
		e.Add(k, v)
	}
}

// OrNil devuelve nil si no hay campos con error, para usar como retorno directo.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	combined := multierr.Combine(e.Causes()...)
	if combined == nil {
		return "errores de validación"
	}
	return "errores de validación: " + combined.Error()
}

func (e *ValidationError) Unwrap() []error {
	causes := make([]error, 0, len(e.Fields)+1)
	causes = append(causes, ErrInvalidInput)
	for _, k := range e.sortedFields() {
		causes = append(causes, e.Fields[k])
	}
	return causes
}

// Causes una causa por campo, prefijada con el nombre del campo y en orden de campo (para logs).
func (e *ValidationError) Causes() []error {
	var combined error
	for _, k := range e.sortedFields() {
		combined = multierr.Append(combined, fmt.Errorf("%s: %w", k, e.Fields[k]))
	}
	return multierr.Errors(combined)
}

func (e *ValidationError) sortedFields() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NotFoundError recurso referenciado (cuenta, movimiento, documento) inexistente.
type NotFoundError struct {
	Resource string
	Key      string
	Err      error // causa específica, p. ej. ErrAccountNotFound
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.Err}
}

// AccountNotFound construye el NotFoundError de una cuenta.
func AccountNotFound(key string) *NotFoundError {
	return &NotFoundError{Resource: "cuenta", Key: key, Err: ErrAccountNotFound}
}

// MovementNotFound construye el NotFoundError de un movimiento.
func MovementNotFound(key string) *NotFoundError {
	return &NotFoundError{Resource: "movimiento", Key: key, Err: ErrMovementNotFound}
}

// DocumentNotFound construye el NotFoundError de una factura o nota crédito.
func DocumentNotFound(kind, key string) *NotFoundError {
	return &NotFoundError{Resource: kind, Key: key, Err: ErrDocumentNotFound}
}

// StructuralError ciclo en la jerarquía o código duplicado; la operación se aborta sin tocar el plan.
type StructuralError struct {
	Code   string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	if e.Code == "" {
		return "plan de cuentas: " + e.Reason
	}
	return fmt.Sprintf("plan de cuentas, cuenta %q: %s", e.Code, e.Reason)
}

func (e *StructuralError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStructural}
	}
	return []error{ErrStructural, e.Err}
}

// StateError operación no permitida en el estado actual (p. ej. sembrar un plan ya existente).
type StateError struct {
	Reason string
	Err    error
}

func (e *StateError) Error() string {
	return "estado inválido: " + e.Reason
}

func (e *StateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConflict}
	}
	return []error{ErrConflict, e.Err}
}
