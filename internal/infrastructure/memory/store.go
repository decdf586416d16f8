// Package memory implementa los repositorios y el TxRunner sobre mapas protegidos por un mutex.
// Se usa con DB_DRIVER=memory y en los tests de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// Store almacén en memoria. Una transacción toma el mutex completo y guarda una copia
// del estado; si fn falla se restaura la copia (Rollback).
type Store struct {
	mu sync.Mutex
	data
}

type data struct {
	accounts    map[string]*entity.Account
	movements   map[string]*entity.Movement
	invoices    map[string]*entity.Invoice
	creditNotes map[string]*entity.CreditNote
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: data{
		accounts:    make(map[string]*entity.Account),
		movements:   make(map[string]*entity.Movement),
		invoices:    make(map[string]*entity.Invoice),
		creditNotes: make(map[string]*entity.CreditNote),
	}}
}

// Repositorios fuera de transacción: cada llamada toma el mutex.

// Accounts repositorio de cuentas.
func (s *Store) Accounts() repository.AccountRepository { return &accountRepo{s: s} }

// Movements repositorio de movimientos.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Invoices repositorio de facturas.
func (s *Store) Invoices() repository.InvoiceRepository { return &invoiceRepo{s: s} }

// CreditNotes repositorio de notas crédito.
func (s *Store) CreditNotes() repository.CreditNoteRepository { return &creditNoteRepo{s: s} }

// RunLedger ejecuta fn con repositorios de cuentas y movimientos dentro de una transacción.
func (s *Store) RunLedger(ctx context.Context, fn func(
	accountRepo repository.AccountRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return s.run(ctx, func() error {
		return fn(&accountRepo{s: s, inTx: true}, &movementRepo{s: s, inTx: true})
	})
}

// RunChart ejecuta fn con el repositorio de cuentas dentro de una transacción.
func (s *Store) RunChart(ctx context.Context, fn func(accountRepo repository.AccountRepository) error) error {
	return s.run(ctx, func() error {
		return fn(&accountRepo{s: s, inTx: true})
	})
}

// RunDocuments ejecuta fn con repositorios de facturas y notas crédito dentro de una transacción.
func (s *Store) RunDocuments(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	creditNoteRepo repository.CreditNoteRepository,
) error) error {
	return s.run(ctx, func() error {
		return fn(&invoiceRepo{s: s, inTx: true}, &creditNoteRepo{s: s, inTx: true})
	})
}

func (s *Store) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(); err != nil {
		s.data = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// with ejecuta fn con el mutex tomado salvo que ya lo tenga la transacción en curso.
func (s *Store) with(inTx bool, fn func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

func (d data) clone() data {
	out := data{
		accounts:    make(map[string]*entity.Account, len(d.accounts)),
		movements:   make(map[string]*entity.Movement, len(d.movements)),
		invoices:    make(map[string]*entity.Invoice, len(d.invoices)),
		creditNotes: make(map[string]*entity.CreditNote, len(d.creditNotes)),
	}
	for k, v := range d.accounts {
		out.accounts[k] = cloneAccount(v)
	}
	for k, v := range d.movements {
		out.movements[k] = cloneMovement(v)
	}
	for k, v := range d.invoices {
		out.invoices[k] = cloneInvoice(v)
	}
	for k, v := range d.creditNotes {
		out.creditNotes[k] = cloneCreditNote(v)
	}
	return out
}

func cloneAccount(a *entity.Account) *entity.Account {
	c := *a
	return &c
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	c := *m
	return &c
}

func cloneLines(lines []entity.DocumentLine) []entity.DocumentLine {
	if lines == nil {
		return nil
	}
	return append([]entity.DocumentLine(nil), lines...)
}

func cloneInvoice(i *entity.Invoice) *entity.Invoice {
	c := *i
	c.Lines = cloneLines(i.Lines)
	return &c
}

func cloneCreditNote(n *entity.CreditNote) *entity.CreditNote {
	c := *n
	c.Lines = cloneLines(n.Lines)
	return &c
}
