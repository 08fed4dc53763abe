// File: cmd/menu.go
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/console"
	"github.com/xkilldash9x/heronet/internal/observability"
	"github.com/xkilldash9x/heronet/internal/service"
)

func newMenuCmd(factory service.ComponentFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Start the interactive menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, factory)
		},
	}
}

func runMenu(cmd *cobra.Command, factory service.ComponentFactory) error {
	return withComponents(cmd, factory, func(ctx context.Context, cfg config.Interface, components *service.Components) error {
		menu := console.NewMenu(
			components.Network,
			components.Renderer,
			cmd.InOrStdin(),
			cmd.OutOrStdout(),
			statsOptions(cfg.Analytics()),
			observability.GetLogger(),
		)
		return menu.Run(ctx)
	})
}
