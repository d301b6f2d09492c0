package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/posync/internal/infrastructure/postgres"
)

// NewMigrateCommand crea las tablas en PostgreSQL sin arrancar el servidor.
func NewMigrateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea o actualiza el esquema de PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.LoadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			if cfg.Store.Driver != "postgres" {
				return fmt.Errorf("migrate: requiere STORE_DRIVER=postgres, actual %q", cfg.Store.Driver)
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()
			if err := postgres.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "esquema actualizado")
			return nil
		},
	}
}
