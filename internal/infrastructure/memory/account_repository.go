package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

type accountRepo struct {
	s    *Store
	inTx bool
}

func (r *accountRepo) Create(_ context.Context, a *entity.Account) error {
	var err error
	r.s.with(r.inTx, func() {
		for _, existing := range r.s.accounts {
			if existing.CompanyID == a.CompanyID && existing.Code == a.Code {
				err = &domain.StructuralError{Code: a.Code, Reason: "código duplicado", Err: domain.ErrDuplicate}
				return
			}
		}
		r.s.accounts[a.ID] = cloneAccount(a)
	})
	return err
}

func (r *accountRepo) Update(_ context.Context, a *entity.Account) error {
	var err error
	r.s.with(r.inTx, func() {
		if cur, ok := r.s.accounts[a.ID]; !ok || cur.CompanyID != a.CompanyID {
			err = domain.AccountNotFound(a.ID)
			return
		}
		for _, existing := range r.s.accounts {
			if existing.ID != a.ID && existing.CompanyID == a.CompanyID && existing.Code == a.Code {
				err = &domain.StructuralError{Code: a.Code, Reason: "código duplicado", Err: domain.ErrDuplicate}
				return
			}
		}
		r.s.accounts[a.ID] = cloneAccount(a)
	})
	return err
}

func (r *accountRepo) UpdateTotals(_ context.Context, a *entity.Account) error {
	var err error
	r.s.with(r.inTx, func() {
		cur, ok := r.s.accounts[a.ID]
		if !ok || cur.CompanyID != a.CompanyID {
			err = domain.AccountNotFound(a.ID)
			return
		}
		cur.DebitTotal = a.DebitTotal
		cur.CreditTotal = a.CreditTotal
		cur.UpdatedAt = a.UpdatedAt
	})
	return err
}

func (r *accountRepo) Delete(_ context.Context, companyID, id string) error {
	var err error
	r.s.with(r.inTx, func() {
		cur, ok := r.s.accounts[id]
		if !ok || cur.CompanyID != companyID {
			err = domain.AccountNotFound(id)
			return
		}
		delete(r.s.accounts, id)
	})
	return err
}

func (r *accountRepo) GetByID(_ context.Context, companyID, id string) (*entity.Account, error) {
	var out *entity.Account
	r.s.with(r.inTx, func() {
		if a, ok := r.s.accounts[id]; ok && a.CompanyID == companyID {
			out = cloneAccount(a)
		}
	})
	return out, nil
}

func (r *accountRepo) GetByCode(_ context.Context, companyID, code string) (*entity.Account, error) {
	var out *entity.Account
	r.s.with(r.inTx, func() {
		for _, a := range r.s.accounts {
			if a.CompanyID == companyID && a.Code == code {
				out = cloneAccount(a)
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate dentro de una transacción el mutex ya serializa el acceso.
func (r *accountRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Account, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *accountRepo) List(_ context.Context, companyID string) ([]*entity.Account, error) {
	var out []*entity.Account
	r.s.with(r.inTx, func() {
		for _, a := range r.s.accounts {
			if a.CompanyID == companyID {
				out = append(out, cloneAccount(a))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *accountRepo) Count(_ context.Context, companyID string) (int, error) {
	n := 0
	r.s.with(r.inTx, func() {
		for _, a := range r.s.accounts {
			if a.CompanyID == companyID {
				n++
			}
		}
	})
	return n, nil
}
