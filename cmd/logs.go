// File: cmd/logs.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/heronet/internal/observability"
)

func newLogsCmd() *cobra.Command {
	var (
		follow  bool
		session string
		level   string
	)

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Print entries of the session log file",
		Long: `Prints the JSON entries of logger.log_file. Entries can be narrowed to one
session id or a minimum level. With --follow the command waits for new entries
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			path := cfg.Logger().LogFile
			if path == "" {
				return fmt.Errorf("logger.log_file is not configured")
			}

			filter := observability.LogFilter{Session: session, MinLevel: level}
			if err := filter.Validate(); err != nil {
				return fmt.Errorf("invalid --level: %w", err)
			}
			return observability.TailLog(cmd.Context(), path, follow, filter, cmd.OutOrStdout())
		},
	}

	logsCmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries")
	logsCmd.Flags().StringVar(&session, "session", "", "Only print entries of this session id")
	logsCmd.Flags().StringVar(&level, "level", "", "Minimum level to print (debug, info, warn, error)")
	return logsCmd
}
