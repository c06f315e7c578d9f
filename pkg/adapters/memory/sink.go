package memory

import (
	"context"
	"sync"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// Sink implements ports.TranscriptSink in memory. Useful for development and tests.
type Sink struct {
	mu   sync.Mutex
	data []domain.Transcript
	err  error
}

// NewSink creates an empty in-memory archive.
func NewSink() *Sink {
	return &Sink{}
}

// Fail makes subsequent Archive calls return err. Pass nil to recover.
func (s *Sink) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Archive stores the transcript.
func (s *Sink) Archive(ctx context.Context, transcript domain.Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	msgs := make([]domain.TranscriptMessage, len(transcript.Messages))
	copy(msgs, transcript.Messages)
	transcript.Messages = msgs
	s.data = append(s.data, transcript)
	return nil
}

// Transcripts returns archived transcripts for a session, oldest first.
func (s *Sink) Transcripts(ctx context.Context, sessionID string) ([]domain.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transcript
	for _, t := range s.data {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

// All returns every archived transcript.
func (s *Sink) All() []domain.Transcript {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transcript, len(s.data))
	copy(out, s.data)
	return out
}
