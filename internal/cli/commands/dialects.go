package commands

import (
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewDialectsCmd creates the dialects command.
func NewDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the registered SQL dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range dialect.List() {
				d, _ := dialect.Get(name)
				mode := "transactional"
				if d.Autocommit {
					mode = "autocommit"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, mode)
			}
			return nil
		},
	}
}
