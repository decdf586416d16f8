package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Contabilidad-api/internal/bootstrap"
	"github.com/jhoicas/Contabilidad-api/internal/domain/accounting"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

func newBalanceCommand() *cobra.Command {
	var companyID, asOf string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Imprime el balance general de una empresa",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var at time.Time
			if asOf != "" {
				t, err := time.Parse("2006-01-02", asOf)
				if err != nil {
					return fmt.Errorf("--as-of: %w", err)
				}
				at = t
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := bootstrap.Open(cmd.Context(), cfg, newLogger(cfg), nil)
			if err != nil {
				return err
			}
			defer app.Close()

			bs, err := app.Reports.BalanceSheet(cmd.Context(), companyID, at)
			if err != nil {
				return err
			}
			return printBalanceSheet(cmd.OutOrStdout(), bs)
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "ID de la empresa (requerido)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "fecha de corte YYYY-MM-DD (informativa)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

// printBalanceSheet tabla con activo, pasivo y patrimonio, sangrada por nivel.
func printBalanceSheet(w io.Writer, bs *accounting.BalanceSheet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Balance general al %s\t\t\n", bs.AsOf.Format("2006-01-02"))
	for _, t := range []entity.BalanceType{entity.BalanceTypeAsset, entity.BalanceTypeLiability, entity.BalanceTypeEquity} {
		b := bs.Bucket(t)
		fmt.Fprintf(tw, "%s\t\t\n", strings.ToUpper(string(t)))
		for _, l := range b.Lines {
			fmt.Fprintf(tw, "%s%s %s\t%s\t\n", strings.Repeat("  ", max(l.Level-1, 0)), l.Code, l.Description, l.Balance.StringFixed(2))
		}
		fmt.Fprintf(tw, "Total %s\t%s\t\n", t, b.Total.StringFixed(2))
	}
	fmt.Fprintf(tw, "Pasivo + patrimonio\t%s\t\n", bs.LiabilitiesAndEquity.StringFixed(2))
	return tw.Flush()
}
