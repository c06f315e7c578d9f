package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter       EventType = "node_enter"
	EventNodeLeave       EventType = "node_leave"
	EventExternalCall    EventType = "external_call"
	EventSessionArchived EventType = "session_archived"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	EventBase
	NodeKey string `json:"node_key"`
	Kind    Kind   `json:"kind"`
}

// CallEvent represents a completed call to an external collaborator.
type CallEvent struct {
	EventBase
	Service  string        `json:"service"`
	Duration time.Duration `json:"duration"`
	IsError  bool          `json:"is_error,omitempty"`
}

// ArchiveEvent is emitted after a transcript write attempt.
type ArchiveEvent struct {
	EventBase
	Reason  string `json:"reason"`
	IsError bool   `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeEnter       func(context.Context, *NodeEvent)
	OnNodeLeave       func(context.Context, *NodeEvent)
	OnExternalCall    func(context.Context, *CallEvent)
	OnSessionArchived func(context.Context, *ArchiveEvent)
}
