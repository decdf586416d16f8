// Package bootstrap arma los casos de uso sobre el backend elegido por DB_DRIVER.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/Contabilidad-api/internal/application/billing"
	"github.com/jhoicas/Contabilidad-api/internal/application/chart"
	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
	"github.com/jhoicas/Contabilidad-api/internal/application/reports"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/Contabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Contabilidad-api/pkg/config"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// txRunner lo implementan postgres.TxRunner y memory.Store.
type txRunner interface {
	ledger.TxRunner
	chart.TxRunner
	billing.TxRunner
}

type backend struct {
	tx          txRunner
	accounts    repository.AccountRepository
	movements   repository.MovementRepository
	invoices    repository.InvoiceRepository
	creditNotes repository.CreditNoteRepository
	close       func()
}

// App casos de uso listos para los adaptadores (HTTP, CLI).
type App struct {
	Chart       *chart.UseCase
	Posting     *ledger.PostingUseCase
	Reports     *reports.Service
	Invoices    *billing.InvoiceUseCase
	CreditNotes *billing.CreditNoteUseCase

	close func()
}

// Close libera el pool de conexiones, si lo hay.
func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Open conecta el backend (PostgreSQL con migraciones opcionales, o memoria) y construye los casos de uso.
// metrics puede ser nil.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, metrics ledger.Metrics) (*App, error) {
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &App{
		Chart: chart.NewUseCase(b.tx, b.accounts, log),
		Posting: ledger.NewPostingUseCase(b.tx, b.movements, b.accounts, log, metrics, ledger.Config{
			NumberRetries: cfg.Ledger.NumberRetries,
		}),
		Reports:     reports.NewService(b.accounts, log),
		Invoices:    billing.NewInvoiceUseCase(b.tx, b.invoices, log),
		CreditNotes: billing.NewCreditNoteUseCase(b.tx, b.creditNotes, log),
		close:       b.close,
	}, nil
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Warn().Msg("DB_DRIVER=memory: los datos no se persisten")
		store := memory.NewStore()
		return &backend{
			tx:          store,
			accounts:    store.Accounts(),
			movements:   store.Movements(),
			invoices:    store.Invoices(),
			creditNotes: store.CreditNotes(),
			close:       func() {},
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		log.Info().Str("dsn", postgres.RedactedURL(cfg.DB.ConnectionString())).Msg("conectado a PostgreSQL")
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		return &backend{
			tx:          postgres.NewTxRunner(pool),
			accounts:    postgres.NewAccountRepository(pool),
			movements:   postgres.NewMovementRepository(pool),
			invoices:    postgres.NewInvoiceRepository(pool),
			creditNotes: postgres.NewCreditNoteRepository(pool),
			close:       pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER %q no soportado", cfg.DB.Driver)
}
