package gridline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gridline-labs/gridline/flows"
	"github.com/gridline-labs/gridline/internal/logging"
	"github.com/gridline-labs/gridline/internal/runtime"
	"github.com/gridline-labs/gridline/pkg/adapters/file"
	"github.com/gridline-labs/gridline/pkg/adapters/memory"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
	"github.com/gridline-labs/gridline/pkg/ports"
	"github.com/gridline-labs/gridline/pkg/session"
)

// Bot is the high-level entry point for the gridline library.
// It wraps the internal runtime and serializes turns per session.
type Bot struct {
	runtime  *runtime.Engine
	sessions *session.Manager
	loader   ports.GraphLoader
	logger   *slog.Logger
	Name     string

	store       ports.SessionStore
	locker      ports.DistributedLocker
	now         func() time.Time
	graphOpts   []graph.Option
	runtimeOpts []runtime.Option
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithLoader injects a custom GraphLoader, bypassing the flow directory.
func WithLoader(l ports.GraphLoader) Option {
	return func(b *Bot) {
		b.loader = l
	}
}

// WithGraphOptions tunes graph validation, e.g. graph.WithRequired for
// custom flows that do not implement the utility's service menus.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(b *Bot) {
		b.graphOpts = append(b.graphOpts, opts...)
	}
}

// WithStore sets the session store (default: in-memory).
func WithStore(store ports.SessionStore) Option {
	return func(b *Bot) {
		b.store = store
	}
}

// WithLocker enables distributed per-session locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(b *Bot) {
		b.locker = locker
	}
}

// WithTranscriptSink sets where finished and expired sessions are archived.
func WithTranscriptSink(sink ports.TranscriptSink) Option {
	return func(b *Bot) {
		b.runtimeOpts = append(b.runtimeOpts, runtime.WithTranscriptSink(sink))
	}
}

// WithVerifier sets the account/contact lookup backend.
func WithVerifier(v ports.VerificationClient) Option {
	return func(b *Bot) {
		b.runtimeOpts = append(b.runtimeOpts, runtime.WithVerifier(v))
	}
}

// WithClassifier sets the intent classifier.
func WithClassifier(c ports.IntentClassifier) Option {
	return func(b *Bot) {
		b.runtimeOpts = append(b.runtimeOpts, runtime.WithClassifier(c))
	}
}

// WithAdvisor sets the solar question-answering service.
func WithAdvisor(a ports.Advisor) Option {
	return func(b *Bot) {
		b.runtimeOpts = append(b.runtimeOpts, runtime.WithAdvisor(a))
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.runtimeOpts = append(b.runtimeOpts, runtime.WithLifecycleHooks(hooks))
	}
}

// WithTimeout sets the session inactivity timeout. Zero disables expiry.
func WithTimeout(d time.Duration) Option {
	return func(b *Bot) {
		b.runtimeOpts = append(b.runtimeOpts, runtime.WithTimeout(d))
	}
}

// WithClock replaces time.Now. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) {
		b.now = now
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// New loads and validates the conversation graph and builds a Bot.
// An empty flowsDir selects the embedded default flows, unless WithLoader
// is given.
func New(ctx context.Context, flowsDir string, opts ...Option) (*Bot, error) {
	b := &Bot{}
	for _, opt := range opts {
		opt(b)
	}

	if b.loader == nil {
		if flowsDir == "" {
			b.loader = file.NewLoader(flows.FS)
			b.Name = "default"
		} else {
			absPath, err := filepath.Abs(flowsDir)
			if err != nil {
				return nil, fmt.Errorf("invalid path: %w", err)
			}
			b.loader = file.NewDirLoader(absPath)
			b.Name = filepath.Base(absPath)
		}
	} else if flowsDir != "" {
		b.Name = filepath.Base(flowsDir)
	}

	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.Name != "" {
		b.logger = b.logger.With("graph", b.Name)
	}
	if b.store == nil {
		b.store = memory.NewStore()
	}

	nodes, err := b.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, err := graph.New(nodes, b.graphOpts...)
	if err != nil {
		return nil, err
	}

	managerOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(b.locker))
	}
	if b.now != nil {
		managerOpts = append(managerOpts, session.WithClock(b.now))
	}
	b.sessions = session.NewManager(b.store, managerOpts...)

	runtimeOpts := append([]runtime.Option{runtime.WithLogger(b.logger)}, b.runtimeOpts...)
	b.runtime = runtime.NewEngine(g, b.sessions, runtimeOpts...)

	return b, nil
}

// Handle processes one user message. Turns for the same session never
// interleave; when the session lock cannot be taken the caller gets a
// server error reply.
func (b *Bot) Handle(ctx context.Context, sessionID, message string) domain.Reply {
	var reply domain.Reply
	err := b.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		reply = b.runtime.Handle(ctx, sessionID, message)
		return nil
	})
	if err != nil {
		b.logger.Error("Failed to lock session", "session_id", sessionID, "err", err)
		return domain.ErrorReply(runtime.SystemErrorMessage)
	}
	return reply
}

// Nodes returns the full graph definition for visualization or introspection.
func (b *Bot) Nodes() []domain.Node {
	return b.runtime.Graph().Nodes()
}

// Graph returns the validated conversation graph.
func (b *Bot) Graph() *graph.Graph {
	return b.runtime.Graph()
}

// Sessions exposes the session manager. Its methods take the same lock as
// Handle, so inspection tools never observe a half-finished turn.
func (b *Bot) Sessions() *session.Manager {
	return b.sessions
}
