package gridline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// Chatbot is what the Runner drives. *Bot implements it.
type Chatbot interface {
	Handle(ctx context.Context, sessionID, message string) domain.Reply
}

// Runner handles the chat loop of a Bot using provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Run converses with bot as sessionID until the conversation ends, the
// input is exhausted, or the user types exit/quit.
func (r *Runner) Run(ctx context.Context, bot Chatbot, sessionID string) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)
	writer := r.Output

	if !r.Headless {
		fmt.Fprintln(writer, "--- gridline chat ---")
	}

	// The first message of a session only opens it.
	reply := bot.Handle(ctx, sessionID, "")
	for {
		r.render(reply)
		if reply.Kind == domain.ReplyEnd || reply.Kind == domain.ReplyTimeout {
			return nil
		}

		if !r.Headless {
			fmt.Fprint(writer, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil && (err != io.EOF || text == "") {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)

		if input == "exit" || input == "quit" {
			fmt.Fprintln(writer, "Bye!")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		reply = bot.Handle(ctx, sessionID, pickOption(reply, input))
	}
}

func (r *Runner) render(reply domain.Reply) {
	output := reply.Message
	if r.Renderer != nil {
		if rendered, err := r.Renderer(output); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
	for i, opt := range reply.Options {
		fmt.Fprintf(r.Output, "  %d. %s\n", i+1, opt)
	}
}

// pickOption lets the user answer a menu by its number.
func pickOption(reply domain.Reply, input string) string {
	if reply.Kind != domain.ReplyMenu {
		return input
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(reply.Options) {
		return input
	}
	return reply.Options[n-1]
}
