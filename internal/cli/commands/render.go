package commands

import (
	"fmt"

	"github.com/leapstack-labs/querykit/internal/starlark"
	"github.com/leapstack-labs/querykit/pkg/compile"
	"github.com/leapstack-labs/querykit/pkg/db"
	"github.com/leapstack-labs/querykit/pkg/dialect"
	"github.com/spf13/cobra"

	// Register the bundled dialects.
	_ "github.com/leapstack-labs/querykit/pkg/dialects/duckdb"
	_ "github.com/leapstack-labs/querykit/pkg/dialects/mysql"
	_ "github.com/leapstack-labs/querykit/pkg/dialects/postgres"
	_ "github.com/leapstack-labs/querykit/pkg/dialects/snowflake"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <script.star>",
		Short: "Compile a query script to SQL",
		Long: `Render evaluates a Starlark query script and prints the compiled SQL,
including the WITH prefix when the query registers CTEs. The script
must assign its root node to a global named "query".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ConfigFrom(cmd.Context())

			d, err := dialect.MustGet(cfg.Dialect)
			if err != nil {
				return err
			}

			node, err := starlark.Eval(args[0], nil, LoggerFrom(cmd.Context()))
			if err != nil {
				return err
			}

			c := compile.New(d)
			main, err := c.Compile(node)
			if err != nil {
				return fmt.Errorf("compiling %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), db.AssembleWith(main, c.Subqueries()))
			return nil
		},
	}
}
