package runtime_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gridline-labs/gridline/flows"
	"github.com/gridline-labs/gridline/internal/runtime"
	"github.com/gridline-labs/gridline/pkg/adapters/file"
	"github.com/gridline-labs/gridline/pkg/adapters/memory"
	"github.com/gridline-labs/gridline/pkg/adapters/verification"
	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
	"github.com/gridline-labs/gridline/pkg/session"
)

const sessionID = "session-1"

type stubClassifier struct {
	labels []string
	err    error
	calls  int
}

func (c *stubClassifier) Classify(_ context.Context, _ string) ([]string, error) {
	c.calls++
	return c.labels, c.err
}

type stubAdvisor struct {
	answer    string
	next      string
	err       error
	gotTokens []string
}

func (a *stubAdvisor) Ask(_ context.Context, _ string, token string) (string, string, error) {
	a.gotTokens = append(a.gotTokens, token)
	return a.answer, a.next, a.err
}

type harness struct {
	t          *testing.T
	graph      *graph.Graph
	engine     *runtime.Engine
	store      *memory.Store
	sessions   *session.Manager
	sink       *memory.Sink
	verifier   *verification.Static
	classifier *stubClassifier
	advisor    *stubAdvisor
	entered    []string
	now        time.Time
}

func loadGraph(t testing.TB) *graph.Graph {
	t.Helper()
	nodes, err := file.NewLoader(flows.FS).Load(context.Background())
	require.NoError(t, err)
	g, err := graph.New(nodes)
	require.NoError(t, err)
	return g
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		graph: loadGraph(t),
		store: memory.NewStore(),
		sink:  memory.NewSink(),
		verifier: &verification.Static{
			Balances: map[string]float64{"1234567890": 542.10},
			Contacts: map[string]string{"0714445598": "1234567890", "0771112223": "9999999999"},
		},
		classifier: &stubClassifier{},
		advisor:    &stubAdvisor{},
		now:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
	h.sessions = session.NewManager(h.store, session.WithClock(func() time.Time { return h.now }))
	h.engine = runtime.NewEngine(h.graph, h.sessions,
		runtime.WithTranscriptSink(h.sink),
		runtime.WithVerifier(h.verifier),
		runtime.WithClassifier(h.classifier),
		runtime.WithAdvisor(h.advisor),
		runtime.WithTokenSource(func() string { return "tok-1" }),
		runtime.WithLifecycleHooks(domain.LifecycleHooks{
			OnNodeEnter: func(_ context.Context, ev *domain.NodeEvent) {
				h.entered = append(h.entered, ev.NodeKey)
			},
		}),
	)
	return h
}

func (h *harness) send(message string) domain.Reply {
	h.t.Helper()
	return h.engine.Handle(context.Background(), sessionID, message)
}

// seed stores a session already sitting on state.
func (h *harness) seed(state string, scratch map[string]any) *domain.Session {
	h.t.Helper()
	s := domain.NewSession(sessionID, state, h.now)
	s.Language = domain.LanguageEnglish
	for k, v := range scratch {
		s.Scratch[k] = v
	}
	require.NoError(h.t, h.store.Save(context.Background(), s))
	return s
}

func (h *harness) session() *domain.Session {
	h.t.Helper()
	s, err := h.store.Load(context.Background(), sessionID)
	require.NoError(h.t, err)
	return s
}

func (h *harness) deleted() bool {
	_, err := h.store.Load(context.Background(), sessionID)
	return errors.Is(err, domain.ErrSessionNotFound)
}

func (h *harness) node(key string) domain.Node {
	h.t.Helper()
	n, ok := h.graph.Lookup(key)
	require.True(h.t, ok, key)
	return n
}
