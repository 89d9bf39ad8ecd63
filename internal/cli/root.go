// Package cli provides the command-line interface for querykit.
package cli

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/querykit/internal/cli/commands"
	"github.com/leapstack-labs/querykit/internal/cli/config"
	"github.com/spf13/cobra"
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
		Use:   "querykit",
		Short: "querykit - composable SQL query builder",
		Long: `querykit compiles composable query descriptions into dialect-specific SQL.

Queries are written as Starlark scripts using the builder surface
(table, this, select, where, join, ...) and rendered or executed
against a configured database.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := commands.WithConfig(cmd.Context(), cfg)
			ctx = commands.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default querykit.yaml)")
	flags.String("dialect", "", "SQL dialect to compile for")
	flags.String("driver", "", "database/sql driver name")
	flags.String("dsn", "", "database connection string")
	flags.String("output", "", "output format: table, json, csv")
	flags.Bool("verbose", false, "verbose logging")

	rootCmd.AddCommand(commands.NewRenderCmd())
	rootCmd.AddCommand(commands.NewExecCmd())
	rootCmd.AddCommand(commands.NewDialectsCmd())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}
