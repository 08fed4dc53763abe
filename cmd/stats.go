// File: cmd/stats.go
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/heronet/api/schemas"
	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/reporting"
	"github.com/xkilldash9x/heronet/internal/service"
)

func newStatsCmd(factory service.ComponentFactory) *cobra.Command {
	var (
		asJSON     bool
		topK       int
		windowDays int
		egoName    string
		asOf       string
		outputPath string
	)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print network statistics",
		Long: `Prints the number of superheroes and connections, the heroes added in the
recent window, the most connected heroes and the friends of the ego hero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("top") {
				cfg.SetAnalyticsTopK(topK)
			}
			if flags.Changed("window") {
				cfg.SetAnalyticsWindowDays(windowDays)
			}
			if flags.Changed("ego") {
				cfg.SetAnalyticsEgoName(egoName)
			}
			if topK < 0 || windowDays < 0 {
				return fmt.Errorf("%w: --top and --window must not be negative", schemas.ErrInvalidInput)
			}

			var date schemas.Date
			if asOf != "" {
				if date, err = schemas.ParseDate(asOf); err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
			}

			format := reporting.FormatText
			if asJSON {
				format = reporting.FormatJSON
			}

			return withComponents(cmd, factory, func(ctx context.Context, cfg config.Interface, components *service.Components) error {
				opts := statsOptions(cfg.Analytics())
				opts.AsOf = date
				summary := components.Network.Stats(opts)

				var reporter reporting.Reporter
				if outputPath == "" {
					reporter, err = reporting.NewWriter(format, cmd.OutOrStdout())
				} else {
					reporter, err = reporting.New(format, outputPath)
				}
				if err != nil {
					return err
				}
				if err := reporter.Write(summary); err != nil {
					_ = reporter.Close()
					return err
				}
				return reporter.Close()
			})
		},
	}

	statsCmd.Flags().BoolVar(&asJSON, "json", false, "Print the statistics as JSON")
	statsCmd.Flags().IntVar(&topK, "top", 0, "Number of most connected heroes to list (default from analytics.top_k)")
	statsCmd.Flags().IntVar(&windowDays, "window", 0, "Recent window in days (default from analytics.recent_window_days)")
	statsCmd.Flags().StringVar(&egoName, "ego", "", "Hero whose friends are listed (default from analytics.ego_name)")
	statsCmd.Flags().StringVar(&asOf, "as-of", "", "Reference date as YYYY-MM-DD (default today)")
	statsCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the statistics to a file instead of stdout")
	return statsCmd
}
