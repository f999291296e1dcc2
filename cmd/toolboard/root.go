package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/toolboard/internal/config"
	"github.com/okian/toolboard/pkg/logger"
)

// runtimeKey carries the loaded config through the command context.
type runtimeKey struct{}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "toolboard",
		Short: "Weekly leaderboard for AI tools",
		Long: `toolboard scores every tool in the catalog on value, quality, adoption and
usability, ranks tools within their category and compares each week against
the last stored snapshot.

Configuration is layered: built-in defaults, then the YAML file given with
--config (or TOOLBOARD_CONFIG), then TOOLBOARD_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd.Context(), flags)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log level (debug|info|warn|error)")

	root.AddCommand(
		newServeCmd(),
		newSnapshotCmd(),
		newScoresCmd(),
		newMoversCmd(),
		newVerifyCmd(),
	)
	return root
}

// setup loads configuration and initializes the global logger. Logs go to
// stderr so reports on stdout stay pipeable.
func setup(ctx context.Context, flags *globalFlags) (*config.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(os.Stderr)); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

// configFrom returns the config stored by the root pre-run hook.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(runtimeKey{}).(*config.Config); ok {
		return cfg
	}
	return config.New()
}
