package reports

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// Service construye los reportes financieros sobre los saldos actuales de las cuentas.
// Las lecturas no bloquean cuentas: reflejan lo confirmado (READ COMMITTED).
type Service struct {
	accountRepo repository.AccountRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewService construye el servicio de reportes.
func NewService(accountRepo repository.AccountRepository, log *logger.Logger) *Service {
	return &Service{accountRepo: accountRepo, log: log, now: time.Now}
}

// Summary balance general y estado de resultados generados a la vez.
type Summary struct {
	BalanceSheet    *accounting.BalanceSheet
	IncomeStatement *accounting.IncomeStatement
	GeneratedAt     time.Time
}

// BalanceSheet balance general. asOf en cero = ahora.
func (s *Service) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*accounting.BalanceSheet, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	accounts, err := s.accountRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return accounting.BuildBalanceSheet(accounts, asOf), nil
}

// IncomeStatement estado de resultados. Sin período = año en curso hasta hoy.
func (s *Service) IncomeStatement(ctx context.Context, companyID string, from, to time.Time) (*accounting.IncomeStatement, error) {
	now := s.now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = accounting.YearStart(to)
	}
	if to.Before(from) {
		return nil, domain.NewValidationError("to", errors.New("la fecha final es anterior a la inicial"))
	}
	accounts, err := s.accountRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return accounting.BuildIncomeStatement(accounts, from, to), nil
}

// Summary genera ambos reportes en paralelo; si uno falla se cancela el otro.
func (s *Service) Summary(ctx context.Context, companyID string, from, to time.Time) (*Summary, error) {
	out := &Summary{GeneratedAt: s.now()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs, err := s.BalanceSheet(gctx, companyID, to)
		out.BalanceSheet = bs
		return err
	})
	g.Go(func() error {
		is, err := s.IncomeStatement(gctx, companyID, from, to)
		out.IncomeStatement = is
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Str("company_id", companyID).Msg("resumen financiero fallido")
		return nil, err
	}
	return out, nil
}
