package graph

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer provides methods to visualize the dependency graph
type Visualizer struct {
	graph *DependencyGraph
}

// NewVisualizer creates a new graph visualizer
func NewVisualizer(graph *DependencyGraph) *Visualizer {
	return &Visualizer{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format. Edges point from a node
// to the nodes it depends on.
func (v *Visualizer) WriteDOT(w io.Writer) error {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	ids := make(map[NodeKey]string, len(v.graph.order))
	for i, key := range v.graph.order {
		node := v.graph.nodes[key]
		id := fmt.Sprintf("n%d", i)
		ids[key] = id

		fmt.Fprintf(&b, "  %s [label=%q, fillcolor=%q, style=filled];\n",
			id, formatNodeLabel(node), nodeColor(node))
	}

	for _, key := range v.graph.order {
		for _, dep := range v.graph.nodes[key].Dependencies {
			fmt.Fprintf(&b, "  %s -> %s;\n", ids[key], ids[dep])
		}
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes the graph grouped by depth, dependencies first.
func (v *Visualizer) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Dependency Graph:\n")
	b.WriteString("=================\n\n")

	if err := v.graph.CalculateDepths(); err != nil {
		fmt.Fprintf(&b, "%v\n", err)
		_, werr := io.WriteString(w, b.String())
		if werr != nil {
			return werr
		}
		return err
	}

	v.graph.mu.RLock()
	levels := make(map[int][]*Node)
	maxDepth := -1
	for _, key := range v.graph.order {
		node := v.graph.nodes[key]
		levels[node.Depth] = append(levels[node.Depth], node)
		if node.Depth > maxDepth {
			maxDepth = node.Depth
		}
	}

	for depth := 0; depth <= maxDepth; depth++ {
		fmt.Fprintf(&b, "Level %d:\n", depth)
		b.WriteString("--------\n")
		for _, node := range levels[depth] {
			v.writeNodeDetails(&b, node, "  ")
		}
		b.WriteString("\n")
	}

	edges := 0
	for _, node := range v.graph.nodes {
		edges += len(node.Dependencies)
	}
	nodes := len(v.graph.nodes)
	v.graph.mu.RUnlock()

	b.WriteString("Statistics:\n")
	b.WriteString("-----------\n")
	fmt.Fprintf(&b, "  Total nodes: %d\n", nodes)
	fmt.Fprintf(&b, "  Total edges: %d\n", edges)
	fmt.Fprintf(&b, "  Roots: [%s]\n", nodeLabels(v.graph.GetRoots()))
	fmt.Fprintf(&b, "  Leaves: [%s]\n", nodeLabels(v.graph.GetLeaves()))

	_, err := io.WriteString(w, b.String())
	return err
}

func formatNodeLabel(node *Node) string {
	if node.Kind == "" {
		return node.Label
	}
	return fmt.Sprintf("%s\n(%s)", node.Label, node.Kind)
}

func nodeColor(node *Node) string {
	switch node.Kind {
	case "Singleton":
		return "lightblue"
	case "Factory":
		return "lightyellow"
	case "Resource":
		return "lightgreen"
	case "config":
		return "lavender"
	default:
		return "lightgray"
	}
}

func (v *Visualizer) writeNodeDetails(b *strings.Builder, node *Node, indent string) {
	fmt.Fprintf(b, "%s%s\n", indent, node.Label)

	if node.Kind != "" {
		fmt.Fprintf(b, "%s  Kind: %s\n", indent, node.Kind)
	}

	if len(node.Dependencies) > 0 {
		fmt.Fprintf(b, "%s  Dependencies: [%s]\n", indent, v.labels(node.Dependencies))
	}
	if len(node.Dependents) > 0 {
		fmt.Fprintf(b, "%s  Dependents: [%s]\n", indent, v.labels(node.Dependents))
	}
}

func (v *Visualizer) labels(keys []NodeKey) string {
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = v.graph.nodes[key].Label
	}
	return strings.Join(out, ", ")
}

func nodeLabels(nodes []*Node) string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return strings.Join(out, ", ")
}
