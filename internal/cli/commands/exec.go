package commands

import (
	"fmt"

	"github.com/leapstack-labs/querykit/internal/starlark"
	"github.com/leapstack-labs/querykit/pkg/db"
	"github.com/leapstack-labs/querykit/pkg/dialect"
	"github.com/leapstack-labs/querykit/pkg/query"
	"github.com/spf13/cobra"
)

// NewExecCmd creates the exec command.
func NewExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <script.star>",
		Short: "Run a query script against the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ConfigFrom(cmd.Context())

			d, err := dialect.MustGet(cfg.Dialect)
			if err != nil {
				return err
			}
			if cfg.Driver == "" {
				return fmt.Errorf("a driver is required to execute queries")
			}

			node, err := starlark.Eval(args[0], nil, LoggerFrom(cmd.Context()))
			if err != nil {
				return err
			}

			handle, err := db.Open(cfg.Driver, cfg.DSN, d, db.WithLogger(LoggerFrom(cmd.Context())))
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer handle.Close()

			if _, ok := node.(query.Statement); ok {
				if err := handle.ExecContext(cmd.Context(), node); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			}

			rows, err := handle.QueryContext(cmd.Context(), node)
			if err != nil {
				return err
			}
			defer rows.Close()
			return renderResults(cmd.OutOrStdout(), rows, cfg.Output)
		},
	}
}
