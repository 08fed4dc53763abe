// File: cmd/render.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/service"
)

func newRenderCmd(factory service.ComponentFactory) *cobra.Command {
	var (
		output string
		noPNG  bool
	)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the network as SVG and, when Chrome is available, PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if output != "" {
				cfg.SetRenderOutput(output)
			}
			if noPNG {
				cfg.SetRenderPNG(false)
			}

			return withComponents(cmd, factory, func(ctx context.Context, _ config.Interface, components *service.Components) error {
				network := components.Network
				artifact, err := components.Renderer.Render(ctx, network.Graph(), network.Heroes())
				if artifact.SVGPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Network drawing saved as '%s'\n", artifact.SVGPath)
				}
				if artifact.PNGPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Network visualization saved as '%s'\n", artifact.PNGPath)
				}
				return err
			})
		},
	}

	renderCmd.Flags().StringVarP(&output, "output", "o", "", "SVG output path (default from render.output)")
	renderCmd.Flags().BoolVar(&noPNG, "no-png", false, "Skip the PNG rasterization step")
	return renderCmd
}
