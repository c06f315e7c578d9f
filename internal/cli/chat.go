package cli

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/gridline-labs/gridline"
	"github.com/gridline-labs/gridline/internal/presentation/tui"
)

// ChatOptions configures an interactive terminal conversation.
type ChatOptions struct {
	SessionID string
	Headless  bool
	Plain     bool // skip markdown rendering
	Input     io.Reader
	Output    io.Writer
}

// RunChat talks to bot from the terminal until the conversation ends or the
// user quits. An empty SessionID starts a fresh session.
func RunChat(ctx *SignalContext, bot gridline.Chatbot, opts ChatOptions) error {
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = "cli-" + uuid.NewString()
	}

	if !opts.Headless {
		tui.PrintBanner(opts.Output, gridline.Version)
		printSystemMessage(opts.Output, "Session '%s' active. Type 'exit' to leave.", sessionID)
	}

	r := &gridline.Runner{
		Input:    opts.Input,
		Output:   opts.Output,
		Headless: opts.Headless,
	}
	if !opts.Headless && !opts.Plain {
		r.Renderer = tui.NewRenderer()
	}

	err := r.Run(ctx, bot, sessionID)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if !opts.Headless {
		switch sig := ctx.Signal(); {
		case sig != nil:
			fmt.Fprintln(opts.Output)
			printSystemMessage(opts.Output, "Interrupted. Resume with --session %s", sessionID)
		case err == nil:
			printSystemMessage(opts.Output, "Conversation finished.")
		}
	}
	return handleExecutionError(err)
}
