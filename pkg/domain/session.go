package domain

import "time"

// Language is the conversation language, chosen once at the root menu.
type Language string

const (
	LanguageUnknown Language = "Unknown"
	LanguageEnglish Language = "English"
	LanguageSinhala Language = "Sinhala"
)

// ParseLanguage maps a root-menu option to a Language.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LanguageEnglish:
		return LanguageEnglish
	case LanguageSinhala:
		return LanguageSinhala
	}
	return LanguageUnknown
}

// Well-known scratch keys.
const (
	ScratchAccount        = "account"
	ScratchBalance        = "balance"
	ScratchDistrict       = "district"
	ScratchTown           = "town"
	ScratchIdentifier     = "identifier"
	ScratchIdentifierType = "identifier_type"
	ScratchFaultType      = "fault_type"
	ScratchAdvisorSession = "advisor_session"
)

// Turn is one exchange in the session transcript.
// Bot is nil when the engine had not produced an answer for the input.
type Turn struct {
	User      string    `json:"user"`
	Bot       *string   `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one customer's in-progress conversation.
type Session struct {
	ID           string         `json:"session_id"`
	State        string         `json:"state"`
	Language     Language       `json:"language"`
	MistakeCount int            `json:"mistake_count"`
	Category     string         `json:"category,omitempty"`
	Scratch      map[string]any `json:"scratch"`
	History      []Turn         `json:"history"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// NewSession creates a session positioned at root.
func NewSession(id, root string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     root,
		Language:  LanguageUnknown,
		Scratch:   make(map[string]any),
		History:   []Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Scratch = make(map[string]any, len(s.Scratch))
	for k, v := range s.Scratch {
		c.Scratch[k] = v
	}
	c.History = make([]Turn, len(s.History))
	copy(c.History, s.History)
	return &c
}

// Normalize restores invariants after decoding from a store.
func (s *Session) Normalize() {
	if s.Scratch == nil {
		s.Scratch = make(map[string]any)
	}
	if s.History == nil {
		s.History = []Turn{}
	}
	if s.Language == "" {
		s.Language = LanguageUnknown
	}
}

// Record appends a turn to the history.
func (s *Session) Record(user string, bot *string, at time.Time) {
	s.History = append(s.History, Turn{User: user, Bot: bot, Timestamp: at})
}

// ScratchString returns a string scratch value, or "" when absent.
func (s *Session) ScratchString(key string) string {
	v, _ := s.Scratch[key].(string)
	return v
}

// ScratchFloat returns a numeric scratch value. Stores that round-trip through
// JSON may hand back any numeric type.
func (s *Session) ScratchFloat(key string) (float64, bool) {
	switch v := s.Scratch[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// ClearScratch removes the given keys from scratch.
func (s *Session) ClearScratch(keys ...string) {
	for _, k := range keys {
		delete(s.Scratch, k)
	}
}

// Stale reports whether the session has been idle longer than timeout.
func (s *Session) Stale(now time.Time, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}
	return now.Sub(s.UpdatedAt) > timeout
}

// Text is a helper for building a non-nil bot turn.
func Text(s string) *string {
	return &s
}
