// Command gridline runs the customer service chatbot: the HTTP API, an MCP
// server, an interactive terminal chat and graph/session maintenance tools.
package main

func main() {
	Execute()
}
