package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Contabilidad-api/pkg/jwt"
)

func newTokenCommand() *cobra.Command {
	var userID, companyID, role string
	var minutes int

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT para la API (empresa y rol)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !jwt.ValidRole(role) {
				return fmt.Errorf("rol %q no reconocido (admin|contabile|viewer)", role)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tokens, err := jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
			if err != nil {
				return errors.New("JWT_SECRET requerido")
			}
			ttl := cfg.JWT.TTL()
			if minutes > 0 {
				ttl = time.Duration(minutes) * time.Minute
			}
			tok, err := tokens.IssueFor(jwt.Principal{UserID: userID, CompanyID: companyID, Role: role}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "cli", "ID del usuario")
	cmd.Flags().StringVar(&companyID, "company", "", "ID de la empresa (requerido)")
	cmd.Flags().StringVar(&role, "role", jwt.RoleViewer, "rol: admin, contabile o viewer")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "validez en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}
