package main

import (
	"github.com/spf13/cobra"

	"github.com/gridline-labs/gridline/internal/cli"
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"sessions"},
	Short:   "Manage stored sessions",
}

var sessionListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List active sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStack(cmd)
		if err != nil {
			return err
		}
		defer st.Close(cmd.Context())
		return cli.ListSessions(cmd.Context(), st.Bot.Sessions(), cmd.OutOrStdout())
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect [session-id]",
	Short: "Print a session as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStack(cmd)
		if err != nil {
			return err
		}
		defer st.Close(cmd.Context())
		return cli.InspectSession(cmd.Context(), st.Bot.Sessions(), args[0], cmd.OutOrStdout())
	},
}

var sessionRemoveCmd = &cobra.Command{
	Use:     "rm [session-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a session without archiving it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStack(cmd)
		if err != nil {
			return err
		}
		defer st.Close(cmd.Context())
		return cli.DeleteSession(cmd.Context(), st.Bot.Sessions(), args[0], cmd.OutOrStdout())
	},
}

var sessionTranscriptsCmd = &cobra.Command{
	Use:   "transcripts [session-id]",
	Short: "Print the archived transcripts of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStack(cmd)
		if err != nil {
			return err
		}
		defer st.Close(cmd.Context())
		return cli.ShowTranscripts(cmd.Context(), st.Sink, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd, sessionInspectCmd, sessionRemoveCmd, sessionTranscriptsCmd)
}
