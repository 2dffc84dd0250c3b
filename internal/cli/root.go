// Package cli provides the command-line interface for LeapSync.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapsync/internal/cli/commands"
	"github.com/leapstack-labs/leapsync/internal/cli/config"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leapsync",
		Short: "LeapSync - Parallel Relational Import Tool",
		Long: `LeapSync copies a relational row set out of a source database in parallel.

A run plans the extraction contract (partition column, value range, data SQL
template), splits the range into partitions, and extracts each partition
concurrently into CSV files.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			config.SetCurrent(cfg)

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default leapsync.yaml)")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.String("driver", "", "Source adapter driver (postgres, duckdb, sqlite)")
	flags.String("dsn", "", "Source connection string")
	flags.String("username", "", "Source username")
	flags.String("password", "", "Source password")
	flags.String("table", "", "Source table name")
	flags.String("sql", "", "Free-form source SQL (must contain ${CONDITIONS})")
	flags.String("columns", "", "Comma-separated columns to extract")
	flags.String("partition-column", "", "Partition column override")
	flags.String("boundary-query", "", "Boundary query override")
	flags.Int("partitions", config.DefaultPartitions, "Number of partitions")
	flags.String("output-dir", config.DefaultOutputDir, "Output directory for CSV files")
	flags.Int("parallelism", config.DefaultParallelism, "Concurrent extraction queries")
	flags.String("state-path", config.DefaultStateFile, "Run-history database path")

	rootCmd.AddCommand(commands.NewPlanCommand())
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewRunsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
