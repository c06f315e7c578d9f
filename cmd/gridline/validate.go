package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline"
	"github.com/gridline-labs/gridline/internal/runtime"
	"github.com/gridline-labs/gridline/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flows-dir]",
	Short: "Validate the conversation graph",
	Long:  `Loads the flows, runs the load-time checks and reports unreachable nodes and dead ends.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("flows")
		if len(args) > 0 {
			dir = args[0]
		}
		strict, _ := cmd.Flags().GetBool("strict")

		bot, err := gridline.New(cmd.Context(), dir)
		if err != nil {
			return fmt.Errorf("graph failed to load: %w", err)
		}

		report := validator.ValidateGraph(bot.Graph(), runtime.ImplicitEdges)
		out := cmd.OutOrStdout()
		for _, k := range report.DeadEnds {
			fmt.Fprintf(out, "warning: dead end '%s'\n", k)
		}
		if err := report.Err(strict); err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ Graph is valid (%d nodes, %d reachable)\n", len(bot.Nodes()), report.Visited)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat dead ends as errors")
}
