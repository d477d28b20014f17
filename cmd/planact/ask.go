package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(flags *rootFlags, d deps) *cobra.Command {
	var dumpPath string
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question",
		Long: `Ask a single question and print the reply.

Examples:
  planact ask "What is 15 * 45?"
  planact ask --toolset dogs "How much do two Border Collies weigh?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, d)
			if err != nil {
				return err
			}
			defer a.Close()

			question := strings.Join(args, " ")
			reply, err := a.agent.Ask(ctx, question)
			if err != nil {
				return err
			}
			if err := newDumper(dumpPath, a.agent).dump(question); err != nil {
				a.logger.Warn("failed to write transcript", "error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().StringVar(&dumpPath, "dump", "", "Append the conversation as YAML to this file")
	return cmd
}
