package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Kind is the closed set of node behaviours.
type Kind string

const (
	// KindMenu offers a fixed list of options, each mapped to a transition.
	KindMenu Kind = "menu"
	// KindForm collects one or more free-text fields.
	KindForm Kind = "form"
	// KindMessage shows text and treats the next input as free text.
	KindMessage Kind = "message"
	// KindClassification routes free text through the intent classifier.
	KindClassification Kind = "classification"
	// KindEnd terminates the conversation and triggers archival.
	KindEnd Kind = "end"
)

// Kinds lists every valid node kind.
var Kinds = []Kind{KindMenu, KindForm, KindMessage, KindClassification, KindEnd}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMenu, KindForm, KindMessage, KindClassification, KindEnd:
		return true
	}
	return false
}

// Node is a vertex in the static conversation graph.
type Node struct {
	Key         string            `json:"key" yaml:"key"`
	Kind        Kind              `json:"kind" yaml:"kind"`
	Message     string            `json:"message" yaml:"message"`
	Options     []string          `json:"options,omitempty" yaml:"options,omitempty"`
	Transitions map[string]string `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Fields      []string          `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// HasOption reports whether option is an exact (case-sensitive) member of Options.
// Clone returns a copy of n that shares no slices or maps with it.
func (n Node) Clone() Node {
	n.Options = slices.Clone(n.Options)
	n.Fields = slices.Clone(n.Fields)
	n.Transitions = maps.Clone(n.Transitions)
	return n
}

func (n Node) HasOption(option string) bool {
	for _, o := range n.Options {
		if o == option {
			return true
		}
	}
	return false
}

// Check validates the node's shape against its kind.
func (n Node) Check() error {
	if n.Key == "" {
		return fmt.Errorf("node has empty key")
	}
	switch n.Kind {
	case KindMenu:
		if len(n.Options) == 0 {
			return fmt.Errorf("menu node %q has no options", n.Key)
		}
		if len(n.Transitions) == 0 {
			return fmt.Errorf("menu node %q has no transitions", n.Key)
		}
	case KindClassification:
		if len(n.Transitions) == 0 {
			return fmt.Errorf("classification node %q has no transitions", n.Key)
		}
	case KindForm:
		if len(n.Fields) == 0 {
			return fmt.Errorf("form node %q has no fields", n.Key)
		}
	case KindMessage, KindEnd:
	default:
		return fmt.Errorf("node %q has unknown kind %q", n.Key, n.Kind)
	}
	return nil
}
