package dsl

import (
	"context"
	"sort"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
	"github.com/gridline-labs/gridline/pkg/ports"
)

// Builder manages the graph construction.
type Builder struct {
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(key string) *NodeBuilder {
	if nb, ok := b.nodes[key]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{Key: key},
		builder: b,
	}
	b.nodes[key] = nb
	return nb
}

// Nodes returns the nodes built so far, sorted by key.
func (b *Builder) Nodes() []domain.Node {
	keys := make([]string, 0, len(b.nodes))
	for k := range b.nodes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nodes := make([]domain.Node, 0, len(keys))
	for _, k := range keys {
		nodes = append(nodes, b.nodes[k].Build())
	}
	return nodes
}

// Build snapshots the nodes into a GraphLoader.
func (b *Builder) Build() *Loader {
	return &Loader{nodes: b.Nodes()}
}

// Graph validates the nodes directly.
func (b *Builder) Graph(opts ...graph.Option) (*graph.Graph, error) {
	return graph.New(b.Nodes(), opts...)
}

// Loader serves a fixed node set.
type Loader struct {
	nodes []domain.Node
}

var _ ports.GraphLoader = (*Loader)(nil)

// Load returns a copy of the nodes.
func (l *Loader) Load(ctx context.Context) ([]domain.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]domain.Node(nil), l.nodes...), nil
}
