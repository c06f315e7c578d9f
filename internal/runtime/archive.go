package runtime

import (
	"context"
	"time"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// archive hands the session's transcript to the sink. Without a sink the
// transcript is dropped and archival counts as successful.
func (e *Engine) archive(ctx context.Context, s *domain.Session, reason string, now time.Time) error {
	if e.sink == nil {
		return nil
	}
	started := time.Now()
	err := e.sink.Archive(ctx, domain.NewTranscript(s, reason, now))
	e.observe(ctx, s.ID, "transcript_sink", started, err != nil)
	if e.hooks.OnSessionArchived != nil {
		e.hooks.OnSessionArchived(ctx, &domain.ArchiveEvent{
			EventBase: domain.EventBase{Timestamp: now, Type: domain.EventSessionArchived, SessionID: s.ID},
			Reason:    reason,
			IsError:   err != nil,
		})
	}
	if err != nil {
		return &domain.ExternalServiceError{Service: "transcript_sink", Err: err}
	}
	return nil
}

// finish archives a session that reached an end node. On success the session
// is marked for deletion; on failure it stays on the end node so the next
// message retries.
func (e *Engine) finish(ctx context.Context, t *turn, end domain.Node) domain.Reply {
	if err := e.archive(ctx, t.s, domain.ReasonCompleted, t.now); err != nil {
		e.logger.Error("Failed to archive finished session", "session_id", t.s.ID, "err", err)
		return domain.ErrorReply(msgArchiveFailed)
	}
	t.archived = true
	e.logger.Info("Session completed", "session_id", t.s.ID, "state", t.s.State)
	return domain.Reply{Message: end.Message, Kind: domain.ReplyEnd, Status: domain.StatusOK}
}

// expire archives and deletes an inactive session. The triggering message is
// not processed.
func (e *Engine) expire(ctx context.Context, s *domain.Session, now time.Time) domain.Reply {
	if err := e.archive(ctx, s, domain.ReasonTimeout, now); err != nil {
		e.logger.Error("Failed to archive expired session", "session_id", s.ID, "err", err)
		return domain.ErrorReply(msgArchiveFailed)
	}
	if err := e.sessions.DeleteLocked(ctx, s.ID); err != nil {
		e.logger.Error("Failed to delete expired session", "session_id", s.ID, "err", err)
	}
	e.logger.Info("Session expired", "session_id", s.ID, "idle", now.Sub(s.UpdatedAt))
	return domain.Reply{Message: msgExpired, Kind: domain.ReplyTimeout, Status: domain.StatusTimeout}
}
