// Package sanitize cleans customer input before it reaches the engine.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxInputSize is 4KB.
const DefaultMaxInputSize = 4096

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer enforces a size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
type Sanitizer struct {
	MaxSize int
}

// New returns a Sanitizer. A non-positive limit falls back to the default.
func New(maxSize int) *Sanitizer {
	if maxSize <= 0 {
		maxSize = DefaultMaxInputSize
	}
	return &Sanitizer{MaxSize: maxSize}
}

// Clean returns the sanitized input. Oversized input is rejected rather than
// truncated so the engine never sees a partial message.
func (s *Sanitizer) Clean(input string) (string, error) {
	limit := s.MaxSize
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: nothing to strip.
	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// SessionID validates a session identifier: non-empty, bounded, and free of
// whitespace and control characters.
func (s *Sanitizer) SessionID(id string) error {
	if id == "" {
		return errors.New("session_id is required")
	}
	if len(id) > 128 {
		return fmt.Errorf("%w: session_id size=%d limit=128", ErrInputTooLarge, len(id))
	}
	if !utf8.ValidString(id) {
		return ErrInvalidUTF8
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("session_id contains invalid character %q", r)
		}
	}
	return nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
