package observability

import (
	"context"
	"log/slog"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// Combine merges hook sets. Each event is delivered to every set in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnNodeEnter = chainNode(out.OnNodeEnter, h.OnNodeEnter)
		out.OnNodeLeave = chainNode(out.OnNodeLeave, h.OnNodeLeave)
		out.OnExternalCall = chainCall(out.OnExternalCall, h.OnExternalCall)
		out.OnSessionArchived = chainArchive(out.OnSessionArchived, h.OnSessionArchived)
	}
	return out
}

func chainNode(a, b func(context.Context, *domain.NodeEvent)) func(context.Context, *domain.NodeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainCall(a, b func(context.Context, *domain.CallEvent)) func(context.Context, *domain.CallEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.CallEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainArchive(a, b func(context.Context, *domain.ArchiveEvent)) func(context.Context, *domain.ArchiveEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *domain.ArchiveEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LoggingHooks logs every lifecycle event at debug level, and failed
// external calls or archives at warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter", "session_id", e.SessionID, "node", e.NodeKey, "kind", e.Kind)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_leave", "session_id", e.SessionID, "node", e.NodeKey)
		},
		OnExternalCall: func(ctx context.Context, e *domain.CallEvent) {
			if e.IsError {
				logger.WarnContext(ctx, "external_call", "session_id", e.SessionID, "service", e.Service, "duration", e.Duration, "is_error", true)
				return
			}
			logger.DebugContext(ctx, "external_call", "session_id", e.SessionID, "service", e.Service, "duration", e.Duration)
		},
		OnSessionArchived: func(ctx context.Context, e *domain.ArchiveEvent) {
			if e.IsError {
				logger.WarnContext(ctx, "session_archived", "session_id", e.SessionID, "reason", e.Reason, "is_error", true)
				return
			}
			logger.InfoContext(ctx, "session_archived", "session_id", e.SessionID, "reason", e.Reason)
		},
	}
}
