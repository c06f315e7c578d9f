/*
Package gridline is a menu-driven customer service chatbot for an electricity
utility, built as a deterministic dialogue state machine over a static
conversation graph.

Each user message advances one session by exactly one step. The graph
(menus, forms, messages, classification and end nodes) is loaded from YAML
flow documents and validated once at startup; sessions live in a pluggable
store and are archived to a transcript sink when they end or time out.

# Flows

  - Language selection at the "start" node (English or Sinhala).
  - Free-text classification into service categories, with escalation to
    the help menu after repeated failures.
  - Bill inquiries: account and contact number verification against the
    billing backend, then balance display.
  - Solar services: contact verification and an advisor-backed Q&A state.
  - Fault reporting: district, town, identifier and fault type collection
    ending in a reference number.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/gridline-labs/gridline"
	)

	func main() {
		ctx := context.Background()

		// Empty directory selects the embedded default flows.
		bot, err := gridline.New(ctx, "")
		if err != nil {
			log.Fatal(err)
		}

		reply := bot.Handle(ctx, "session-123", "hi")
		fmt.Println(reply.Message, reply.Options)
	}

Transports (HTTP, MCP, the terminal chat) live under pkg/adapters and
cmd/gridline.
*/
package gridline
