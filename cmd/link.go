// File: cmd/link.go
package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/console"
	"github.com/xkilldash9x/heronet/internal/roster"
	"github.com/xkilldash9x/heronet/internal/service"
)

func newLinkCmd(factory service.ComponentFactory) *cobra.Command {
	linkCmd := &cobra.Command{
		Use:   "link SOURCE TARGET[,TARGET...]",
		Short: "Connect a superhero to one or more others",
		Long: `Connects SOURCE to every TARGET. Targets may be given as separate arguments or
as one comma-separated list. Invalid targets are reported and skipped.`,
		Example: "  heronet link 1 2,3,4",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceID, err := roster.ParseID(args[0])
			if err != nil {
				return err
			}
			targets := roster.SplitTargets(strings.Join(args[1:], ","))

			return withComponents(cmd, factory, func(ctx context.Context, _ config.Interface, components *service.Components) error {
				network := components.Network
				source, err := network.Hero(sourceID)
				if err != nil {
					return fmt.Errorf("superhero with ID %d doesn't exist: %w", sourceID, err)
				}
				result, saveErr := network.AddLinks(ctx, source.ID, targets)
				console.WriteBatch(cmd.OutOrStdout(), network.Hero, source, result)
				return saveErr
			})
		},
	}

	linkCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, func(ctx context.Context, _ config.Interface, components *service.Components) error {
				network := components.Network
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "SOURCE\tTARGET")
				for _, link := range network.Links() {
					fmt.Fprintf(tw, "%s\t%s\n", heroLabel(network, link.Source), heroLabel(network, link.Target))
				}
				return tw.Flush()
			})
		},
	})

	return linkCmd
}
