// Package cli herramientas de operación de posync (migraciones y tokens de desarrollo).
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/posync/pkg/config"
)

// RootOptions opciones compartidas por todos los comandos.
type RootOptions struct {
	// LoadConfig carga la configuración; por defecto config.Load.
	LoadConfig func() (*config.Config, error)
}

// NewRootCommand construye el comando raíz de posyncctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{LoadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "posyncctl",
		Short:         "Herramientas de operación de posync",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	return cmd
}
