package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfg    Config
	logger *zap.Logger

	// flag values; applied over the environment when set
	flagVerbose   bool
	flagDataDir   string
	flagSQLite    string
	flagDelimiter string
	flagAddr      string
)

var rootCmd = &cobra.Command{
	Use:   "superbowl-dash",
	Short: "Super Bowl results, TV ratings and halftime shows dashboard",
	Long: `superbowl-dash loads three CSV files (games, TV broadcasts and halftime
performers) and serves tables and charts about them.

Run without arguments to start the web dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)

		zc := zap.NewProductionConfig()
		if cfg.Verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func applyFlags(cmd *cobra.Command, c *Config) {
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		c.Verbose = flagVerbose
	}
	if flags.Changed("data-dir") {
		c.DataDir = flagDataDir
	}
	if flags.Changed("sqlite") {
		c.SQLitePath = flagSQLite
	}
	if flags.Changed("delimiter") {
		c.Delimiter = flagDelimiter
	}
	if flags.Changed("addr") {
		c.Addr = flagAddr
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "data", "Directory (or base URL) holding the CSV files")
	rootCmd.PersistentFlags().StringVar(&flagSQLite, "sqlite", "", "Read from a SQLite snapshot instead of the CSV files")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", ",", "CSV field delimiter")
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", ":8080", "Listen address")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(chartsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
