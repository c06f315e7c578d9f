// Package validator reports structural problems a loaded graph can still
// have: nodes nobody can reach and non-terminal nodes nobody can leave.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridline-labs/gridline/pkg/domain"
	"github.com/gridline-labs/gridline/pkg/graph"
)

// Report is the result of a reachability walk.
type Report struct {
	Visited     int
	Unreachable []string
	DeadEnds    []string
}

// Err folds the report into an error, or nil when the graph is clean.
// Dead ends are only fatal when strict is set.
func (r Report) Err(strict bool) error {
	var problems []string
	for _, k := range r.Unreachable {
		problems = append(problems, fmt.Sprintf("Unreachable node: '%s'", k))
	}
	if strict {
		for _, k := range r.DeadEnds {
			problems = append(problems, fmt.Sprintf("Dead end: '%s'", k))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(problems, "\n- "))
}

// ValidateGraph walks g breadth-first from its root following node
// transitions plus the extra edges supplied by the caller. A Sinhala variant
// is reachable whenever its English counterpart is.
func ValidateGraph(g *graph.Graph, extra map[string][]string) Report {
	visited := make(map[string]bool)
	queue := []string{g.Root()}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		node, ok := g.Lookup(current)
		if !ok {
			continue
		}
		for _, target := range node.Transitions {
			queue = append(queue, base(target))
		}
		queue = append(queue, extra[current]...)
	}

	report := Report{Visited: len(visited)}
	for _, n := range g.Nodes() {
		if !visited[base(n.Key)] {
			report.Unreachable = append(report.Unreachable, n.Key)
			continue
		}
		if deadEnd(n, extra) {
			report.DeadEnds = append(report.DeadEnds, n.Key)
		}
	}
	sort.Strings(report.Unreachable)
	sort.Strings(report.DeadEnds)
	return report
}

func deadEnd(n domain.Node, extra map[string][]string) bool {
	if n.Kind == domain.KindEnd || len(n.Transitions) > 0 {
		return false
	}
	return len(extra[base(n.Key)]) == 0
}

func base(key string) string {
	return strings.TrimSuffix(key, graph.SinhalaSuffix)
}
