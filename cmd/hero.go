// File: cmd/hero.go
package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/service"
)

func newHeroCmd(factory service.ComponentFactory) *cobra.Command {
	heroCmd := &cobra.Command{
		Use:   "hero",
		Short: "Add, show or list superheroes",
	}

	heroCmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add a superhero created today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, func(ctx context.Context, _ config.Interface, components *service.Components) error {
				hero, err := components.Network.AddHero(ctx, args[0])
				if hero.ID == 0 {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Successfully added %s (ID: %d) on %s\n", hero.Name, hero.ID, hero.CreatedAt)
				return err
			})
		},
	})

	heroCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every superhero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, func(ctx context.Context, _ config.Interface, components *service.Components) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tCREATED")
				for _, hero := range components.Network.Heroes() {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", hero.ID, hero.Name, hero.CreatedAt)
				}
				return tw.Flush()
			})
		},
	})

	heroCmd.AddCommand(&cobra.Command{
		Use:   "show NAME",
		Short: "Show a superhero and its connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, factory, func(ctx context.Context, _ config.Interface, components *service.Components) error {
				network := components.Network
				hero, err := network.HeroByName(args[0])
				if err != nil {
					return err
				}
				friends := make([]string, 0)
				for _, id := range network.Graph().Neighbors(hero.ID) {
					friends = append(friends, heroLabel(network, id))
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID: %d\nName: %s\nCreated: %s\n", hero.ID, hero.Name, hero.CreatedAt)
				if len(friends) == 0 {
					fmt.Fprintln(out, "Connections: none")
					return nil
				}
				fmt.Fprintf(out, "Connections (%d): %s\n", len(friends), strings.Join(friends, ", "))
				return nil
			})
		},
	})

	return heroCmd
}

// heroLabel names a hero by id, falling back to the bare id.
func heroLabel(network *service.Network, id int64) string {
	if hero, err := network.Hero(id); err == nil {
		return hero.Name
	}
	return fmt.Sprintf("#%d", id)
}
