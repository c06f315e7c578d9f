package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gridline-labs/gridline/internal/logging"
	"github.com/gridline-labs/gridline/internal/sanitize"
	"github.com/gridline-labs/gridline/pkg/domain"
)

// GraphURI is the resource under which the conversation graph is exposed.
const GraphURI = "gridline://graph"

// Chatbot is the dialogue service exposed over MCP.
type Chatbot interface {
	Handle(ctx context.Context, sessionID, message string) domain.Reply
	Nodes() []domain.Node
}

// SendMessageArgs are the arguments of the send_message tool.
type SendMessageArgs struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Server exposes the chatbot as an MCP server.
type Server struct {
	bot       Chatbot
	sanitizer *sanitize.Sanitizer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSanitizer replaces the default input sanitizer.
func WithSanitizer(s *sanitize.Sanitizer) Option {
	return func(srv *Server) {
		srv.sanitizer = s
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		srv.logger = l
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(bot Chatbot, version string, opts ...Option) *Server {
	s := &Server{
		bot:       bot,
		sanitizer: sanitize.New(0),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("gridline-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send one customer message to the utility chatbot and get its reply. Start with any text to receive the language menu."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier chosen by the client")),
		mcp.WithString("message", mcp.Required(), mcp.Description("Customer message, usually one of the options of the previous reply")),
		mcp.WithOutputSchema[domain.Reply](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the conversation graph for introspection."),
	), s.handleGetGraph)
}

func (s *Server) handleSendMessage(ctx context.Context, _ mcp.CallToolRequest, args SendMessageArgs) (domain.Reply, error) {
	if err := s.sanitizer.SessionID(args.SessionID); err != nil {
		return domain.Reply{}, fmt.Errorf("invalid session_id: %w", err)
	}
	clean, err := s.sanitizer.Clean(args.Message)
	if err != nil {
		s.logger.Warn("MCP send_message: Input rejected", "err", err, "size", len(args.Message))
		return domain.Reply{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.bot.Handle(ctx, args.SessionID, strings.TrimSpace(clean)), nil
}

func (s *Server) handleGetGraph(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(s.bot.Nodes())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode graph: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Conversation Graph",
		mcp.WithMIMEType("application/json"),
	), s.readGraph)
}

func (s *Server) readGraph(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(s.bot.Nodes())
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
