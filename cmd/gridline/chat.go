package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gridline-labs/gridline/internal/cli"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the chatbot in the terminal",
	Long: `Runs an interactive conversation against the configured stores and services.
Menu options can be answered by number. Type 'exit' to leave; with a persistent
session backend the conversation can be resumed later with --session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, logger, err := openStack(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				logger.Warn("Failed to close backends", "err", err)
			}
		}()

		sessionID, _ := cmd.Flags().GetString("session")
		headless, _ := cmd.Flags().GetBool("headless")
		plain, _ := cmd.Flags().GetBool("plain")
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			headless = true
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.RunChat(sigCtx, st.Bot, cli.ChatOptions{
			SessionID: sessionID,
			Headless:  headless,
			Plain:     plain,
			Input:     os.Stdin,
			Output:    os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", "", "Session ID to create or resume")
	chatCmd.Flags().Bool("headless", false, "No banner or prompts (for piping)")
	chatCmd.Flags().Bool("plain", false, "Do not render markdown")
}
