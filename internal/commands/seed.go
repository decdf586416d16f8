package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Contabilidad-api/internal/bootstrap"
)

func newSeedCommand() *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el plan de cuentas base de una empresa",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := bootstrap.Open(cmd.Context(), cfg, newLogger(cfg), nil)
			if err != nil {
				return err
			}
			defer app.Close()

			accounts, err := app.Chart.Seed(cmd.Context(), companyID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d cuentas creadas para %s\n", len(accounts), companyID)
			return nil
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "ID de la empresa (requerido)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
