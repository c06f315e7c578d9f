// Package middleware decorates session stores and transcript sinks with
// encryption and PII masking.
package middleware

import "github.com/gridline-labs/gridline/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// SinkMiddleware allows wrapping a TranscriptSink to add behavior.
type SinkMiddleware func(ports.TranscriptSink) ports.TranscriptSink

// Chain applies mws so the first one is outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
