package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gridline-labs/gridline/internal/logging"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
	"github.com/gridline-labs/gridline/pkg/ports"
	"github.com/gridline-labs/gridline/pkg/session"
)

// DefaultTimeout is the inactivity threshold after which a session expires.
const DefaultTimeout = 5 * time.Minute

// Engine is the dialogue state machine. It is safe for concurrent use across
// different sessions.
type Engine struct {
	graph      *graph.Graph
	sessions   *session.Manager
	sink       ports.TranscriptSink
	verifier   ports.VerificationClient
	classifier ports.IntentClassifier
	advisor    ports.Advisor

	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	now      func() time.Time
	newToken func() string
	timeout  time.Duration

	bill  *billFlow
	solar *solarFlow
	fault *faultFlow
}

// Option configures the Engine.
type Option func(*Engine)

// WithTranscriptSink sets where finished and expired sessions are archived.
func WithTranscriptSink(sink ports.TranscriptSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithVerifier sets the account/contact lookup backend.
func WithVerifier(v ports.VerificationClient) Option {
	return func(e *Engine) {
		e.verifier = v
	}
}

// WithClassifier sets the intent classifier.
func WithClassifier(c ports.IntentClassifier) Option {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithAdvisor sets the solar question-answering service.
func WithAdvisor(a ports.Advisor) Option {
	return func(e *Engine) {
		e.advisor = a
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTimeout sets the inactivity threshold. Zero or negative disables expiry.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithTokenSource replaces the generator of advisor conversation tokens.
func WithTokenSource(fn func() string) Option {
	return func(e *Engine) {
		e.newToken = fn
	}
}

// NewEngine creates an engine over a validated graph. Sessions are persisted
// and timestamped through sessions, whose clock the engine shares.
// Missing collaborators degrade gracefully: lookups report invalid, free
// text is never classified, the advisor is unavailable, and transcripts are
// dropped.
func NewEngine(g *graph.Graph, sessions *session.Manager, opts ...Option) *Engine {
	e := &Engine{
		graph:    g,
		sessions: sessions,
		logger:   logging.NewNop(),
		now:      sessions.Now,
		newToken: uuid.NewString,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bill = &billFlow{e: e}
	e.solar = &solarFlow{e: e}
	e.fault = &faultFlow{e: e}
	return e
}

// Graph returns the conversation graph the engine runs.
func (e *Engine) Graph() *graph.Graph {
	return e.graph
}

// Handle processes one message for sessionID. It never fails: every error is
// logged and turned into a Reply. The caller must hold the session's lock.
func (e *Engine) Handle(ctx context.Context, sessionID, message string) domain.Reply {
	s, created, err := e.sessions.LoadOrStartLocked(ctx, sessionID, e.graph.Root())
	if err != nil {
		e.logger.Error("Failed to load session", "session_id", sessionID, "err", err)
		return domain.ErrorReply(msgSystemError)
	}
	if created {
		return e.start(ctx, s)
	}

	now := e.now()
	if s.Stale(now, e.timeout) {
		return e.expire(ctx, s, now)
	}

	t := &turn{s: s, message: message, now: now}
	reply := e.step(ctx, t)

	if t.archived {
		if err := e.sessions.DeleteLocked(ctx, s.ID); err != nil {
			e.logger.Error("Failed to delete archived session", "session_id", s.ID, "err", err)
		}
		return reply
	}

	if err := e.sessions.SaveLocked(ctx, s); err != nil {
		e.logger.Error("Failed to save session", "session_id", s.ID, "err", err)
		return domain.ErrorReply(msgSystemError)
	}
	return reply
}

// turn carries one Handle invocation through the dispatch helpers.
type turn struct {
	s        *domain.Session
	message  string
	now      time.Time
	archived bool
}

// start presents the root menu to a session that was just created. The first
// message is not consumed.
func (e *Engine) start(ctx context.Context, s *domain.Session) domain.Reply {
	root, err := e.graph.Resolve(s.State, s.Language)
	if err != nil {
		e.logger.Error("Root node missing", "err", err)
		return domain.ErrorReply(msgSystemError)
	}
	e.emitEnter(ctx, s.ID, root)
	e.logger.Debug("Session started", "session_id", s.ID)
	return domain.NodeReply(root)
}

// step runs the dispatch order for an existing, live session.
func (e *Engine) step(ctx context.Context, t *turn) domain.Reply {
	s := t.s

	// A session parked on an end node is retrying its archive.
	if n, ok := e.lookup(s); ok && n.Kind == domain.KindEnd {
		return e.finish(ctx, t, n)
	}

	if s.State == e.graph.Root() {
		if reply, ok := e.captureLanguage(ctx, t); ok {
			return reply
		}
	}

	node, err := e.graph.Resolve(s.State, s.Language)
	if err != nil {
		if !isProtected(s.State) {
			e.logger.Warn("Unknown state, resetting to root", "session_id", s.ID, "state", s.State, "err", err)
			return e.reset(ctx, t)
		}
		// Protected verification states are handled by their flow even
		// without a node; the flow re-prompts from its own texts.
		node = domain.Node{Key: s.State, Kind: domain.KindForm}
	}

	switch {
	case isBillState(s.State):
		return e.bill.handle(ctx, t, node)
	case isSolarState(s.State):
		return e.solar.handle(ctx, t, node)
	case isFaultState(s.State):
		return e.fault.handle(ctx, t, node)
	}
	return e.dispatch(ctx, t, node)
}

// dispatch handles a node by its kind.
func (e *Engine) dispatch(ctx context.Context, t *turn, node domain.Node) domain.Reply {
	switch node.Kind {
	case domain.KindMenu:
		if node.Key == graph.HelpMenu || node.Key == graph.HelpMenu+graph.SinhalaSuffix {
			if !node.HasOption(t.message) {
				return e.classify(ctx, t, node)
			}
		}
		return e.menu(ctx, t, node, msgSelectValidOption)
	case domain.KindMessage, domain.KindClassification:
		return e.classify(ctx, t, node)
	case domain.KindForm:
		return e.form(ctx, t, node)
	case domain.KindEnd:
		return e.finish(ctx, t, node)
	}
	e.logger.Error("Unhandled node kind", "node", node.Key, "kind", node.Kind)
	return domain.ErrorReply(msgSystemError)
}

// captureLanguage handles a valid option at the root: it fixes the language
// and follows the root transition.
func (e *Engine) captureLanguage(ctx context.Context, t *turn) (domain.Reply, bool) {
	root, ok := e.graph.Lookup(e.graph.Root())
	if !ok || !root.HasOption(t.message) {
		return domain.Reply{}, false
	}
	if lang := domain.ParseLanguage(t.message); lang != domain.LanguageUnknown {
		t.s.Language = lang
	}
	next, ok := root.Transitions[t.message]
	if !ok {
		return e.configError(t, root.Key, "root option "+t.message+" has no transition"), true
	}
	return e.goTo(ctx, t, next, ""), true
}

// reset sends the session back to the root menu with clean scratch.
func (e *Engine) reset(ctx context.Context, t *turn) domain.Reply {
	t.s.ClearScratch(allScratch...)
	t.s.MistakeCount = 0
	return e.goTo(ctx, t, e.graph.Root(), "")
}

// goTo moves the session to key and presents that node. prefix, when set, is
// prepended to the node's message. Landing on an end node archives.
func (e *Engine) goTo(ctx context.Context, t *turn, key, prefix string) domain.Reply {
	next, err := e.graph.Resolve(key, t.s.Language)
	if err != nil {
		return e.configError(t, t.s.State, "transition to missing node "+key)
	}
	e.enter(ctx, t, next)

	reply := domain.NodeReply(next)
	if prefix != "" {
		reply.Message = prefix + "\n\n" + reply.Message
	}
	t.s.Record(t.message, domain.Text(reply.Message), t.now)
	if next.Kind == domain.KindEnd {
		return e.finish(ctx, t, next)
	}
	return reply
}

// enter updates the state cursor and fires the node hooks.
func (e *Engine) enter(ctx context.Context, t *turn, next domain.Node) {
	s := t.s
	if prev, ok := e.lookup(s); ok {
		e.emitLeave(ctx, s.ID, prev)
	}
	s.State = logicalKey(next.Key)
	if c := domain.CategoryFor(s.State); c != domain.CategoryUnknown {
		s.Category = c
	}
	e.emitEnter(ctx, s.ID, next)
}

// respond records a reply that does not move the session.
func (e *Engine) respond(t *turn, reply domain.Reply) domain.Reply {
	t.s.Record(t.message, domain.Text(reply.Message), t.now)
	return reply
}

// configError reports a graph defect found at runtime. The session stays put.
func (e *Engine) configError(t *turn, node, detail string) domain.Reply {
	err := &domain.ConfigurationError{Node: node, Detail: detail}
	e.logger.Error("Graph configuration error", "session_id", t.s.ID, "err", err)
	return domain.ErrorReply(msgSystemError)
}

func (e *Engine) lookup(s *domain.Session) (domain.Node, bool) {
	n, err := e.graph.Resolve(s.State, s.Language)
	return n, err == nil
}

func (e *Engine) resolve(t *turn, key string) (domain.Node, error) {
	return e.graph.Resolve(key, t.s.Language)
}

func (e *Engine) emitEnter(ctx context.Context, sessionID string, n domain.Node) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventNodeEnter, SessionID: sessionID},
		NodeKey:   n.Key,
		Kind:      n.Kind,
	})
}

func (e *Engine) emitLeave(ctx context.Context, sessionID string, n domain.Node) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventNodeLeave, SessionID: sessionID},
		NodeKey:   n.Key,
		Kind:      n.Kind,
	})
}

// observe times a call to an external collaborator.
func (e *Engine) observe(ctx context.Context, sessionID, service string, started time.Time, failed bool) {
	if e.hooks.OnExternalCall == nil {
		return
	}
	e.hooks.OnExternalCall(ctx, &domain.CallEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventExternalCall, SessionID: sessionID},
		Service:   service,
		Duration:  time.Since(started),
		IsError:   failed,
	})
}
