package dsl

import "github.com/gridline-labs/gridline/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Menu marks the node as a menu with the given prompt.
func (n *NodeBuilder) Menu(message string) *NodeBuilder {
	n.node.Kind = domain.KindMenu
	n.node.Message = message
	return n
}

// Option appends a menu option and the node it leads to.
func (n *NodeBuilder) Option(label, target string) *NodeBuilder {
	n.node.Options = append(n.node.Options, label)
	return n.Route(label, target)
}

// Form marks the node as a form collecting fields.
func (n *NodeBuilder) Form(message string, fields ...string) *NodeBuilder {
	n.node.Kind = domain.KindForm
	n.node.Message = message
	n.node.Fields = append(n.node.Fields, fields...)
	return n
}

// Message marks the node as a plain message.
func (n *NodeBuilder) Message(message string) *NodeBuilder {
	n.node.Kind = domain.KindMessage
	n.node.Message = message
	return n
}

// Classify marks the node as a free-text classification prompt. Labels are
// mapped to targets with Route.
func (n *NodeBuilder) Classify(message string) *NodeBuilder {
	n.node.Kind = domain.KindClassification
	n.node.Message = message
	return n
}

// End marks the node as terminal.
func (n *NodeBuilder) End(message string) *NodeBuilder {
	n.node.Kind = domain.KindEnd
	n.node.Message = message
	n.node.Transitions = nil
	return n
}

// Route adds a transition that is not a visible option, such as a
// classifier label or a confirmation answer.
func (n *NodeBuilder) Route(label, target string) *NodeBuilder {
	if n.node.Transitions == nil {
		n.node.Transitions = make(map[string]string)
	}
	n.node.Transitions[label] = target
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
