// Package commands implementa ledgerctl: migraciones, siembra del plan, balance y tokens.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Contabilidad-api/pkg/config"
	"github.com/jhoicas/Contabilidad-api/pkg/logger"
)

// loadConfig se sustituye en tests.
var loadConfig = config.Load

// NewRootCommand crea el comando raíz con todos los subcomandos registrados.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administración del libro contable",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newBalanceCommand(),
		newTokenCommand(),
	)
	return rootCmd
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
}
