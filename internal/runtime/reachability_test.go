package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridline-labs/gridline/internal/runtime"
	"github.com/gridline-labs/gridline/internal/validator"
)

func TestShippedFlowsAreReachable(t *testing.T) {
	g := loadGraph(t)

	report := validator.ValidateGraph(g, runtime.ImplicitEdges)
	assert.Empty(t, report.Unreachable)
	assert.Empty(t, report.DeadEnds)
	assert.NoError(t, report.Err(true))
}
