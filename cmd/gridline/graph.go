package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/presentation/graph"
	"github.com/gridline-labs/gridline/internal/runtime"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the flow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the conversation graph.
With --session the session's current node is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		sinhala, _ := cmd.Flags().GetBool("sinhala")

		st, _, _, err := openStack(cmd)
		if err != nil {
			return err
		}
		defer st.Close(cmd.Context())

		opts := graph.Options{Implicit: runtime.ImplicitEdges, IncludeSinhala: sinhala}
		if sessionID != "" {
			s, err := st.Bot.Sessions().Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session '%s': %w", sessionID, err)
			}
			opts.Overlay = &graph.GraphOverlay{CurrentNode: s.State}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(st.Bot.Nodes(), opts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the current node of this session")
	graphCmd.Flags().Bool("sinhala", false, "Include the Sinhala node variants")
}
