package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	pkgjwt "github.com/jhoicas/posync/pkg/jwt"
)

type tokenOptions struct {
	userID     string
	businessID string
	role       string
	expMinutes int
}

// NewTokenCommand emite un token firmado con JWT_SECRET para probar la API en local.
// En producción los tokens los emite el servicio de cuentas.
func NewTokenCommand(root *RootOptions) *cobra.Command {
	opts := &tokenOptions{}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token JWT de desarrollo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.LoadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			if cfg.App.Env == "production" {
				return fmt.Errorf("token: no disponible con APP_ENV=production")
			}
			exp := opts.expMinutes
			if exp <= 0 {
				exp = cfg.JWT.Expiration
			}
			tok, err := pkgjwt.Generate(cfg.JWT.Secret, opts.userID, opts.businessID, opts.role, cfg.JWT.Issuer, exp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.userID, "user", "dev", "ID del usuario")
	cmd.Flags().StringVar(&opts.businessID, "business", "", "ID del negocio")
	cmd.Flags().StringVar(&opts.role, "role", "admin", "rol del usuario")
	cmd.Flags().IntVar(&opts.expMinutes, "exp", 0, "minutos de validez (0 = JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("business")
	return cmd
}
