// Package graph holds the immutable conversation graph and its load-time checks.
package graph

import (
	"fmt"
	"sort"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// Root is the entry node of every conversation.
const Root = "start"

// HelpMenu is the options menu shown after repeated classification failures.
const HelpMenu = "english_menu"

// SinhalaSuffix marks the Sinhala variant of a node.
const SinhalaSuffix = "_si"

// DefaultRequired lists the nodes the dialogue flows depend on, with the kind
// each must have.
var DefaultRequired = map[string]domain.Kind{
	Root:                   domain.KindMenu,
	"english_start":        domain.KindClassification,
	HelpMenu:               domain.KindMenu,
	"bill_inquiries":       domain.KindMenu,
	"verification":         domain.KindForm,
	"contact_verification": domain.KindForm,
	"display_balance":      domain.KindMenu,
	"account_comparison":   domain.KindMenu,
	"solar_service":        domain.KindMenu,
	"fault_reporting":      domain.KindMenu,
	"awaiting_district":    domain.KindForm,
	"awaiting_town":        domain.KindForm,
	"awaiting_identifier":  domain.KindForm,
	"awaiting_fault_type":  domain.KindMenu,
	"confirm_details":      domain.KindMessage,
}

// Graph is a validated, read-only conversation graph. Safe for concurrent use.
// Nodes are copied on the way in and on the way out.
type Graph struct {
	nodes map[string]domain.Node
	root  string
}

type config struct {
	required map[string]domain.Kind
	root     string
}

// Option configures graph loading.
type Option func(*config)

// WithRequired replaces the required node set.
func WithRequired(required map[string]domain.Kind) Option {
	return func(c *config) {
		c.required = required
	}
}

// WithRoot sets the entry node (default "start").
func WithRoot(key string) Option {
	return func(c *config) {
		c.root = key
	}
}

// New validates nodes and builds a Graph. Every problem found is reported in a
// single *domain.GraphLoadError.
func New(nodes []domain.Node, opts ...Option) (*Graph, error) {
	cfg := config{required: DefaultRequired, root: Root}
	for _, opt := range opts {
		opt(&cfg)
	}

	var problems []string
	byKey := make(map[string]domain.Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byKey[n.Key]; dup {
			problems = append(problems, fmt.Sprintf("duplicate node %q", n.Key))
			continue
		}
		if err := n.Check(); err != nil {
			problems = append(problems, err.Error())
		}
		byKey[n.Key] = n.Clone()
	}

	if _, ok := byKey[cfg.root]; !ok {
		problems = append(problems, fmt.Sprintf("missing root node %q", cfg.root))
	}

	for _, key := range sortedKeys(cfg.required) {
		want := cfg.required[key]
		n, ok := byKey[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing required node %q", key))
			continue
		}
		if n.Kind != want {
			problems = append(problems, fmt.Sprintf("node %q must be %s, got %s", key, want, n.Kind))
		}
	}

	for _, key := range sortedKeys(byKey) {
		n := byKey[key]
		if n.Kind == domain.KindMenu {
			for _, opt := range n.Options {
				if _, ok := n.Transitions[opt]; !ok {
					problems = append(problems, fmt.Sprintf("menu %q: option %q has no transition", key, opt))
				}
			}
		}
		for _, label := range sortedKeys(n.Transitions) {
			target := n.Transitions[label]
			if _, ok := byKey[target]; !ok {
				problems = append(problems, fmt.Sprintf("node %q: transition %q points to missing node %q", key, label, target))
			}
		}
	}

	if len(problems) > 0 {
		return nil, &domain.GraphLoadError{Problems: problems}
	}
	return &Graph{nodes: byKey, root: cfg.root}, nil
}

// Root returns the entry node key.
func (g *Graph) Root() string {
	return g.root
}

// Lookup returns the node stored under key, without language resolution.
func (g *Graph) Lookup(key string) (domain.Node, bool) {
	n, ok := g.nodes[key]
	return n.Clone(), ok
}

// Resolve returns the node for a logical key, preferring the Sinhala variant
// when lang is Sinhala and one exists.
func (g *Graph) Resolve(key string, lang domain.Language) (domain.Node, error) {
	if lang == domain.LanguageSinhala {
		if n, ok := g.nodes[key+SinhalaSuffix]; ok {
			return n.Clone(), nil
		}
	}
	n, ok := g.nodes[key]
	if !ok {
		return domain.Node{}, &domain.NodeNotFoundError{Key: key}
	}
	return n.Clone(), nil
}

// Has reports whether key is a node in the graph.
func (g *Graph) Has(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// Keys returns all node keys in sorted order.
func (g *Graph) Keys() []string {
	return sortedKeys(g.nodes)
}

// Nodes returns all nodes sorted by key.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.nodes))
	for _, k := range g.Keys() {
		out = append(out, g.nodes[k].Clone())
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
