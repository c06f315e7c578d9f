package ports

import (
	"context"

	"github.com/gridline-labs/gridline/pkg/domain"
)

// GraphLoader produces the node definitions of the conversation graph.
// Validation happens in pkg/graph, not in the loader.
type GraphLoader interface {
	Load(ctx context.Context) ([]domain.Node, error)
}
