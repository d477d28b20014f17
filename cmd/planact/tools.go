package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newToolsCmd(flags *rootFlags) *cobra.Command {
	var terse bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog",
		Long: `Print the catalog of the selected tool set as the executor sees it.

Examples:
  planact tools
  planact tools --toolset weather --terse`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry(flags.toolset)
			if err != nil {
				return err
			}
			catalog := registry.DetailedCatalog()
			if terse {
				catalog = registry.Catalog()
			}
			fmt.Fprintln(cmd.OutOrStdout(), catalog)
			return nil
		},
	}
	cmd.Flags().BoolVar(&terse, "terse", false, "Print the catalog shown to the planner")
	return cmd
}
