package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	var err error
	r.s.with(r.inTx, func() {
		if r.numberTaken(m.CompanyID, m.Number, "") {
			err = domain.ErrNumberConflict
			return
		}
		r.s.movements[m.ID] = cloneMovement(m)
	})
	return err
}

func (r *movementRepo) Update(_ context.Context, m *entity.Movement) error {
	var err error
	r.s.with(r.inTx, func() {
		cur, ok := r.s.movements[m.ID]
		if !ok || cur.CompanyID != m.CompanyID {
			err = domain.MovementNotFound(m.ID)
			return
		}
		if r.numberTaken(m.CompanyID, m.Number, m.ID) {
			err = domain.ErrNumberConflict
			return
		}
		r.s.movements[m.ID] = cloneMovement(m)
	})
	return err
}

func (r *movementRepo) Delete(_ context.Context, companyID, id string) error {
	var err error
	r.s.with(r.inTx, func() {
		cur, ok := r.s.movements[id]
		if !ok || cur.CompanyID != companyID {
			err = domain.MovementNotFound(id)
			return
		}
		delete(r.s.movements, id)
	})
	return err
}

func (r *movementRepo) GetByID(_ context.Context, companyID, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.s.with(r.inTx, func() {
		if m, ok := r.s.movements[id]; ok && m.CompanyID == companyID {
			out = cloneMovement(m)
		}
	})
	return out, nil
}

func (r *movementRepo) GetByNumber(_ context.Context, companyID, number string) (*entity.Movement, error) {
	var out *entity.Movement
	r.s.with(r.inTx, func() {
		for _, m := range r.s.movements {
			if m.CompanyID == companyID && m.Number == number {
				out = cloneMovement(m)
				return
			}
		}
	})
	return out, nil
}

func (r *movementRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *movementRepo) List(_ context.Context, companyID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(f.Term))
	r.s.with(r.inTx, func() {
		for _, m := range r.s.movements {
			if m.CompanyID != companyID {
				continue
			}
			if f.AccountID != "" && !m.References(f.AccountID) {
				continue
			}
			if needle != "" && !containsFolded(fold, needle, m.Reason, m.Number, m.Description) {
				continue
			}
			if f.From != nil && m.MovementDate.Before(*f.From) {
				continue
			}
			if f.To != nil && m.MovementDate.After(*f.To) {
				continue
			}
			out = append(out, cloneMovement(m))
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].MovementDate.Equal(out[j].MovementDate) {
			return out[i].MovementDate.Before(out[j].MovementDate)
		}
		return out[i].Number < out[j].Number
	})
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *movementRepo) CountCreatedSince(_ context.Context, companyID string, since time.Time) (int, error) {
	n := 0
	r.s.with(r.inTx, func() {
		for _, m := range r.s.movements {
			if m.CompanyID == companyID && !m.CreatedAt.Before(since) {
				n++
			}
		}
	})
	return n, nil
}

func (r *movementRepo) CountByAccount(_ context.Context, companyID, accountID string) (int, error) {
	n := 0
	r.s.with(r.inTx, func() {
		for _, m := range r.s.movements {
			if m.CompanyID == companyID && m.References(accountID) {
				n++
			}
		}
	})
	return n, nil
}

// numberTaken se llama con el mutex tomado.
func (r *movementRepo) numberTaken(companyID, number, exceptID string) bool {
	for _, m := range r.s.movements {
		if m.ID != exceptID && m.CompanyID == companyID && m.Number == number {
			return true
		}
	}
	return false
}

func containsFolded(fold cases.Caser, needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(fold.String(f), needle) {
			return true
		}
	}
	return false
}
