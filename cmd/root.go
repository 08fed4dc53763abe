// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/heronet/internal/analytics"
	"github.com/xkilldash9x/heronet/internal/config"
	"github.com/xkilldash9x/heronet/internal/observability"
	"github.com/xkilldash9x/heronet/internal/service"
)

type contextKey string

const configKey contextKey = "config"

// NewRootCommand builds the heronet command tree. factory creates the session
// components for every command that touches the network.
func NewRootCommand(factory service.ComponentFactory) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:     "heronet",
		Short:   "heronet manages a social network of superheroes.",
		Long:    "heronet records superheroes and their friendships, reports network statistics\nand draws the network. Without a subcommand it starts the interactive menu.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(v, cfgFile); err != nil {
				basicLogger, _ := zap.NewDevelopment()
				defer basicLogger.Sync()
				basicLogger.Error("Failed to initialize configuration", zap.Error(err))
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "heronet"})
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Debug("Starting heronet", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, factory)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)

	rootCmd.AddCommand(newMenuCmd(factory))
	rootCmd.AddCommand(newStatsCmd(factory))
	rootCmd.AddCommand(newHeroCmd(factory))
	rootCmd.AddCommand(newLinkCmd(factory))
	rootCmd.AddCommand(newRenderCmd(factory))
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command tree with the production component factory.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand(service.NewComponentFactory())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
		}
		observability.Sync()
		return err
	}
	observability.Sync()
	return nil
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("HERONET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// getConfigFromContext returns the configuration stored by PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (config.Interface, error) {
	if cfg, ok := ctx.Value(configKey).(config.Interface); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("configuration not found in context")
}

// withComponents creates the session components, runs fn and releases them.
func withComponents(cmd *cobra.Command, factory service.ComponentFactory, fn func(ctx context.Context, cfg config.Interface, components *service.Components) error) error {
	ctx := cmd.Context()
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}

	components, err := factory.Create(ctx, cfg, observability.GetLogger())
	if err != nil {
		return err
	}
	defer components.Shutdown()

	return fn(ctx, cfg, components)
}

// statsOptions maps the analytics configuration onto analytics.Options.
func statsOptions(cfg config.AnalyticsConfig) analytics.Options {
	return analytics.Options{
		WindowDays: cfg.RecentWindowDays,
		TopK:       cfg.TopK,
		EgoName:    cfg.EgoName,
	}
}
