package ports

import (
	"context"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// SessionStore persists dialogue sessions.
type SessionStore interface {
	// Save persists the session under session.ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves a session.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}

// TranscriptSink archives finished or expired sessions.
type TranscriptSink interface {
	Archive(ctx context.Context, transcript domain.Transcript) error
}

// TranscriptReader is implemented by sinks that can read their archive back.
type TranscriptReader interface {
	Transcripts(ctx context.Context, sessionID string) ([]domain.Transcript, error)
}
