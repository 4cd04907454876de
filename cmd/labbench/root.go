package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/copyleftdev/labbench/internal/config"
	"github.com/copyleftdev/labbench/internal/logging"
)

// app carries state shared by all subcommands.
type app struct {
	defaults  *config.CLI
	logLevel  string
	logFormat string
	logger    *zap.Logger
}

func newRootCmd(defaults *config.CLI) *cobra.Command {
	a := &app{defaults: defaults, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "labbench",
		Short: "Compare GP-LCB and random search on the Branin function",
		Long: `labbench runs a Gaussian-process lower-confidence-bound search and a
uniform random baseline on the Branin benchmark, and reports the
best value each finds under the same evaluation budget.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewLogger(&logging.Config{
				Level:  a.logLevel,
				Format: a.logFormat,
				Output: "stderr",
			})
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format (console, json)")

	rootCmd.AddCommand(
		newRunCmd(a),
		newCompareCmd(a),
		newBraninCmd(),
		newVersionCmd(),
	)
	return rootCmd
}
