// Package graph exports automata as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/automaton/pkg/domain"
)

// Overlay highlights an execution path on the graph.
type Overlay struct {
	Path []domain.TransitionStep
}

// GenerateMermaid produces a left-to-right Mermaid flowchart of the automaton.
// Shapes follow the usual automaton notation:
// - State: ((Circle))
// - Final state: (((Double circle)))
// - Initial state: entered by an arrow from an invisible start point
// Labels of the same (from, to) pair share one edge. With an overlay, visited
// states and taken edges are styled and the last state of the path is marked current.
func GenerateMermaid(a *domain.Automaton, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    start[ ]:::hidden --> " + nodeID(domain.InitialStateID) + "\n")

	for _, id := range a.IDs() {
		s := a.States[id]
		opener, closer := "((", "))"
		if s.Final {
			opener, closer = "(((", ")))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(id), opener, s.Name, closer)
	}

	// Edge 0 is the start arrow.
	links := map[[2]int]int{}
	next := 1
	for _, id := range a.IDs() {
		for _, e := range a.States[id].Edges {
			labels := make([]string, len(e.Labels))
			for i, l := range e.Labels {
				labels[i] = escape(l.String())
			}
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(id), strings.Join(labels, "<br/>"), nodeID(e.To))
			links[[2]int{id, e.To}] = next
			next++
		}
	}

	sb.WriteString("    classDef hidden display:none;\n")
	if overlay == nil {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for contrast regardless of theme.
	sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	current := domain.InitialStateID
	visited := map[int]bool{}
	taken := map[int]bool{}
	for _, step := range overlay.Path {
		if !visited[step.From] {
			visited[step.From] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(step.From))
		}
		if idx, ok := links[[2]int{step.From, step.To}]; ok && !taken[idx] {
			taken[idx] = true
			fmt.Fprintf(&sb, "    linkStyle %d stroke:#fbc02d,stroke-width:3px;\n", idx)
		}
		current = step.To
	}
	fmt.Fprintf(&sb, "    class %s current;\n", nodeID(current))
	return sb.String()
}

// nodeID avoids Mermaid keywords such as "end" by never using state names as ids.
func nodeID(id int) string {
	return fmt.Sprintf("s%d", id)
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "#quot;")
}
