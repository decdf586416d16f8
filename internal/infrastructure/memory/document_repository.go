package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

type invoiceRepo struct {
	s    *Store
	inTx bool
}

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	var err error
	r.s.with(r.inTx, func() {
		for _, existing := range r.s.invoices {
			if existing.CompanyID == inv.CompanyID && existing.Number == inv.Number {
				err = domain.ErrNumberConflict
				return
			}
		}
		r.s.invoices[inv.ID] = cloneInvoice(inv)
	})
	return err
}

// Update guarda la cabecera; las líneas solo cambian con ReplaceLines.
func (r *invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	var err error
	r.s.with(r.inTx, func() {
		cur, ok := r.s.invoices[inv.ID]
		if !ok || cur.CompanyID != inv.CompanyID {
			err = domain.DocumentNotFound("factura", inv.ID)
			return
		}
		next := cloneInvoice(inv)
		next.Lines = cur.Lines
		r.s.invoices[inv.ID] = next
	})
	return err
}

func (r *invoiceRepo) GetByID(_ context.Context, companyID, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.s.with(r.inTx, func() {
		if inv, ok := r.s.invoices[id]; ok && inv.CompanyID == companyID {
			out = cloneInvoice(inv)
		}
	})
	return out, nil
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *invoiceRepo) ReplaceLines(_ context.Context, invoiceID string, lines []entity.DocumentLine) error {
	var err error
	r.s.with(r.inTx, func() {
		inv, ok := r.s.invoices[invoiceID]
		if !ok {
			err = domain.DocumentNotFound("factura", invoiceID)
			return
		}
		inv.Lines = cloneLines(lines)
	})
	return err
}

func (r *invoiceRepo) CountCreatedSince(_ context.Context, companyID, docType string, since time.Time) (int, error) {
	n := 0
	r.s.with(r.inTx, func() {
		for _, inv := range r.s.invoices {
			if inv.CompanyID == companyID && inv.Type == docType && !inv.CreatedAt.Before(since) {
				n++
			}
		}
	})
	return n, nil
}

func (r *invoiceRepo) Delete(_ context.Context, companyID, id string) error {
	var err error
	r.s.with(r.inTx, func() {
		inv, ok := r.s.invoices[id]
		if !ok || inv.CompanyID != companyID {
			err = domain.DocumentNotFound("factura", id)
			return
		}
		for _, cn := range r.s.creditNotes {
			if cn.CompanyID == companyID && cn.InvoiceID == id {
				err = &domain.StateError{Reason: "factura " + inv.Number + ": " + domain.ErrDocumentReferenced.Error(), Err: domain.ErrDocumentReferenced}
				return
			}
		}
		delete(r.s.invoices, id)
	})
	return err
}

func (r *invoiceRepo) List(_ context.Context, companyID string, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	r.s.with(r.inTx, func() {
		for _, inv := range r.s.invoices {
			if inv.CompanyID != companyID {
				continue
			}
			if f.Type != "" && inv.Type != f.Type {
				continue
			}
			if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
				continue
			}
			if f.SupplierID != "" && inv.SupplierID != f.SupplierID {
				continue
			}
			if f.OverdueAt != nil && !inv.IsOverdue(*f.OverdueAt) {
				continue
			}
			h := cloneInvoice(inv)
			h.Lines = nil
			out = append(out, h)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

type creditNoteRepo struct {
	s    *Store
	inTx bool
}

func (r *creditNoteRepo) Create(_ context.Context, cn *entity.CreditNote) error {
	var err error
	r.s.with(r.inTx, func() {
		for _, existing := range r.s.creditNotes {
			if existing.CompanyID == cn.CompanyID && existing.Number == cn.Number {
				err = domain.ErrNumberConflict
				return
			}
		}
		r.s.creditNotes[cn.ID] = cloneCreditNote(cn)
	})
	return err
}

func (r *creditNoteRepo) Update(_ context.Context, cn *entity.CreditNote) error {
	var err error
	r.s.with(r.inTx, func() {
		cur, ok := r.s.creditNotes[cn.ID]
		if !ok || cur.CompanyID != cn.CompanyID {
			err = domain.DocumentNotFound("nota crédito", cn.ID)
			return
		}
		next := cloneCreditNote(cn)
		next.Lines = cur.Lines
		r.s.creditNotes[cn.ID] = next
	})
	return err
}

func (r *creditNoteRepo) GetByID(_ context.Context, companyID, id string) (*entity.CreditNote, error) {
	var out *entity.CreditNote
	r.s.with(r.inTx, func() {
		if cn, ok := r.s.creditNotes[id]; ok && cn.CompanyID == companyID {
			out = cloneCreditNote(cn)
		}
	})
	return out, nil
}

func (r *creditNoteRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.CreditNote, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *creditNoteRepo) ReplaceLines(_ context.Context, noteID string, lines []entity.DocumentLine) error {
	var err error
	r.s.with(r.inTx, func() {
		cn, ok := r.s.creditNotes[noteID]
		if !ok {
			err = domain.DocumentNotFound("nota crédito", noteID)
			return
		}
		cn.Lines = cloneLines(lines)
	})
	return err
}

func (r *creditNoteRepo) CountCreatedSince(_ context.Context, companyID string, since time.Time) (int, error) {
	n := 0
	r.s.with(r.inTx, func() {
		for _, cn := range r.s.creditNotes {
			if cn.CompanyID == companyID && !cn.CreatedAt.Before(since) {
				n++
			}
		}
	})
	return n, nil
}

func (r *creditNoteRepo) Delete(_ context.Context, companyID, id string) error {
	var err error
	r.s.with(r.inTx, func() {
		if cn, ok := r.s.creditNotes[id]; !ok || cn.CompanyID != companyID {
			err = domain.DocumentNotFound("nota crédito", id)
			return
		}
		delete(r.s.creditNotes, id)
	})
	return err
}

func (r *creditNoteRepo) List(_ context.Context, companyID string, f repository.CreditNoteFilter) ([]*entity.CreditNote, error) {
	var out []*entity.CreditNote
	r.s.with(r.inTx, func() {
		for _, cn := range r.s.creditNotes {
			if cn.CompanyID != companyID {
				continue
			}
			if f.InvoiceID != "" && cn.InvoiceID != f.InvoiceID {
				continue
			}
			if f.CustomerID != "" && cn.CustomerID != f.CustomerID {
				continue
			}
			h := cloneCreditNote(cn)
			h.Lines = nil
			out = append(out, h)
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *creditNoteRepo) CountByInvoice(_ context.Context, companyID, invoiceID string) (int, error) {
	n := 0
	r.s.with(r.inTx, func() {
		for _, cn := range r.s.creditNotes {
			if cn.CompanyID == companyID && cn.InvoiceID == invoiceID {
				n++
			}
		}
	})
	return n, nil
}
