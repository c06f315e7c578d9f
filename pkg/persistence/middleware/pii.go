package middleware

import (
	"context"
	"regexp"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/ports"
)

// Mask replaces every masked value.
const Mask = "***"

// DefaultScratchPatterns match the scratch keys that carry customer identifiers.
var DefaultScratchPatterns = []string{`^account$`, `^identifier$`, `^balance$`}

// DefaultTextPatterns match account and phone numbers in free text.
var DefaultTextPatterns = []string{`\b\d{9,12}\b`}

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware masks scratch values whose keys match the patterns before
// they reach the store. It is meant for write-only audit copies: the engine
// cannot resume a session whose scratch has been masked.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := compile(patternStrings)
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, session *domain.Session) error {
	cloned := session.Clone()
	cloned.Scratch = deepCopyMap(session.Scratch)
	maskMap(cloned.Scratch, m.patterns)
	return m.next.Save(ctx, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

type transcriptMasker struct {
	next     ports.TranscriptSink
	patterns []*regexp.Regexp
}

// NewTranscriptMasker rewrites matches of the patterns in every archived
// message to Mask.
func NewTranscriptMasker(patternStrings []string) SinkMiddleware {
	patterns := compile(patternStrings)
	return func(next ports.TranscriptSink) ports.TranscriptSink {
		return &transcriptMasker{next: next, patterns: patterns}
	}
}

func (m *transcriptMasker) Archive(ctx context.Context, t domain.Transcript) error {
	msgs := make([]domain.TranscriptMessage, len(t.Messages))
	for i, msg := range t.Messages {
		msg.UserMessage = maskText(msg.UserMessage, m.patterns)
		msg.BotResponse = maskText(msg.BotResponse, m.patterns)
		msgs[i] = msg
	}
	t.Messages = msgs
	return m.next.Archive(ctx, t)
}

// Transcripts passes reads through when the wrapped sink supports them.
func (m *transcriptMasker) Transcripts(ctx context.Context, sessionID string) ([]domain.Transcript, error) {
	if r, ok := m.next.(ports.TranscriptReader); ok {
		return r.Transcripts(ctx, sessionID)
	}
	return nil, nil
}

func compile(patternStrings []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return patterns
}

func maskText(s string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
