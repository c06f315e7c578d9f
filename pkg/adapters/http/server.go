package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gridline-labs/gridline/internal/logging"
	"github.com/gridline-labs/gridline/internal/sanitize"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/observability"
)

// Chatbot is the dialogue service behind the HTTP boundary.
type Chatbot interface {
	Handle(ctx context.Context, sessionID, message string) domain.Reply
	Nodes() []domain.Node
}

// ChatRequest is the body of POST /chatbot/.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Server serves the chatbot over HTTP.
type Server struct {
	Bot     Chatbot
	Streams *StreamManager

	sanitizer *sanitize.Sanitizer
	metrics   *observability.Metrics
	logger    *slog.Logger
	version   string
}

// Option configures the Server.
type Option func(*Server)

// WithSanitizer replaces the default input sanitizer.
func WithSanitizer(s *sanitize.Sanitizer) Option {
	return func(srv *Server) {
		srv.sanitizer = s
	}
}

// WithMetrics mounts /metrics and counts replies.
func WithMetrics(m *observability.Metrics) Option {
	return func(srv *Server) {
		srv.metrics = m
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) {
		srv.logger = l
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(srv *Server) {
		srv.version = v
	}
}

// NewHandler builds the router:
//
//	POST /chatbot/   one customer message, one reply
//	GET  /events     server-sent replies for a session
//	GET  /graph      node definitions
//	GET  /health     liveness
//	GET  /info       build information
//	GET  /metrics    Prometheus, when metrics are configured
func NewHandler(bot Chatbot, opts ...Option) http.Handler {
	srv := &Server{
		Bot:       bot,
		Streams:   NewStreamManager(),
		sanitizer: sanitize.New(0),
		logger:    logging.NewNop(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(srv)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/chatbot", srv.Chat)
	r.Post("/chatbot/", srv.Chat)
	r.Get("/events", srv.SubscribeEvents)
	r.Get("/graph", srv.GetGraph)
	r.Get("/health", srv.GetHealth)
	r.Get("/info", srv.GetInfo)
	if srv.metrics != nil {
		r.Handle("/metrics", srv.metrics.Handler())
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StatusCode maps a reply's status hint to an HTTP status.
func StatusCode(s domain.Status) int {
	switch s {
	case domain.StatusClientError:
		return http.StatusBadRequest
	case domain.StatusServerError:
		return http.StatusInternalServerError
	case domain.StatusTimeout:
		return http.StatusRequestTimeout
	}
	return http.StatusOK
}

// Chat handles POST /chatbot/.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&body); err != nil {
		s.logger.Warn("Chat: Invalid request body", "err", err)
		s.reject(w, "Invalid request body")
		return
	}
	if err := s.sanitizer.SessionID(body.SessionID); err != nil {
		s.logger.Warn("Chat: Invalid session id", "err", err)
		s.reject(w, "Invalid session_id")
		return
	}
	msg, err := s.sanitizer.Clean(body.Message)
	if err != nil {
		s.logger.Warn("Chat: Input rejected", "err", err, "size", len(body.Message), "session_id", body.SessionID)
		s.reject(w, "Invalid message")
		return
	}

	reply := s.Bot.Handle(r.Context(), body.SessionID, strings.TrimSpace(msg))
	if s.metrics != nil {
		s.metrics.ObserveReply(reply)
	}
	if b, err := json.Marshal(reply); err == nil {
		s.Streams.Broadcast(body.SessionID, string(b))
	}
	s.writeJSON(w, StatusCode(reply.Status), reply)
}

func (s *Server) reject(w http.ResponseWriter, message string) {
	reply := domain.Reply{Message: message, Kind: domain.ReplyError, Status: domain.StatusClientError}
	if s.metrics != nil {
		s.metrics.ObserveReply(reply)
	}
	s.writeJSON(w, http.StatusBadRequest, reply)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Bot.Nodes())
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "gridline-http",
		"version": strings.TrimSpace(s.version),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
