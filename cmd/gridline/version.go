package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gridline",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gridline version %s\n", gridline.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
