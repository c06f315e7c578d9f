package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/observability"
)

func TestCombine_DeliversToEverySet(t *testing.T) {
	var got []string
	a := domain.LifecycleHooks{OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) { got = append(got, "a:"+e.NodeKey) }}
	b := domain.LifecycleHooks{OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) { got = append(got, "b:"+e.NodeKey) }}

	hooks := observability.Combine(a, domain.LifecycleHooks{}, b)
	hooks.OnNodeEnter(context.Background(), &domain.NodeEvent{NodeKey: "start"})

	assert.Equal(t, []string{"a:start", "b:start"}, got)
	assert.Nil(t, hooks.OnNodeLeave)
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeKey: "bill_inquiries"})
	hooks.OnNodeEnter(ctx, &domain.NodeEvent{NodeKey: "bill_inquiries"})
	hooks.OnExternalCall(ctx, &domain.CallEvent{Service: "verification", Duration: 20 * time.Millisecond, IsError: true})
	hooks.OnSessionArchived(ctx, &domain.ArchiveEvent{Reason: domain.ReasonTimeout})
	m.ObserveReply(domain.Reply{Kind: domain.ReplyMenu, Status: domain.StatusOK})

	count, err := testutil.GatherAndCount(m.Registry(), "gridline_node_visits_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `gridline_node_visits_total{node="bill_inquiries"} 2`)
	assert.Contains(t, body, `gridline_external_call_errors_total{service="verification"} 1`)
	assert.Contains(t, body, `gridline_sessions_archived_total{failed="false",reason="timeout"} 1`)
	assert.Contains(t, body, `gridline_replies_total{kind="menu",status="ok"} 1`)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hooks := observability.LoggingHooks(logger)

	hooks.OnSessionArchived(context.Background(), &domain.ArchiveEvent{
		EventBase: domain.EventBase{SessionID: "s1"},
		Reason:    domain.ReasonCompleted,
		IsError:   true,
	})

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "session_id=s1")
}
