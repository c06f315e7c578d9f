package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// GraphLoadError reports a malformed conversation graph. It is fatal at startup.
type GraphLoadError struct {
	Problems []string
}

func (e *GraphLoadError) Error() string {
	return fmt.Sprintf("invalid conversation graph (%d problems):\n- %s", len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// NodeNotFoundError is returned when a node key is not in the graph.
type NodeNotFoundError struct {
	Key string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found", e.Key)
}

// ConfigurationError is a graph defect found at runtime, such as a menu option
// without a transition.
type ConfigurationError struct {
	Node   string
	Detail string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error at %q: %s", e.Node, e.Detail)
}

// ValidationError rejects a user input for a field or menu.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExternalServiceError wraps a failure of a remote collaborator.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
