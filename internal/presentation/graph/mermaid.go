package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridline-labs/gridline/pkg/domain"
	core "github.com/gridline-labs/gridline/pkg/graph"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// Options tunes what GenerateMermaid draws.
type Options struct {
	// Implicit edges are drawn dotted. They come from flow handlers, not
	// from node transitions.
	Implicit map[string][]string
	// IncludeSinhala keeps the "_si" variants, which otherwise mirror the
	// English nodes.
	IncludeSinhala bool
	Overlay        *GraphOverlay
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a list of nodes.
// It applies semantic styling:
// - Root: ((Circle))
// - Classification: {{Hexagon}}
// - Form: [/Parallelogram/]
// - End: ([Stadium])
// - Default: [Rectangle]
func GenerateMermaid(nodes []domain.Node, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		if !opts.IncludeSinhala && strings.HasSuffix(node.Key, core.SinhalaSuffix) {
			continue
		}
		safeID := sanitizeMermaidID(node.Key)

		opener, closer := "[", "]"
		switch {
		case node.Key == core.Root:
			opener, closer = "((", "))"
		case node.Kind == domain.KindClassification:
			opener, closer = "{{", "}}"
		case node.Kind == domain.KindForm:
			opener, closer = "[/", "/]"
		case node.Kind == domain.KindEnd:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, node.Key, closer)

		labels := make([]string, 0, len(node.Transitions))
		for label := range node.Transitions {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		for _, label := range labels {
			safeLabel := strings.ReplaceAll(label, "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, safeLabel, sanitizeMermaidID(node.Transitions[label]))
		}
		for _, target := range opts.Implicit[node.Key] {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", safeID, sanitizeMermaidID(target))
		}
	}

	if overlay := opts.Overlay; overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
