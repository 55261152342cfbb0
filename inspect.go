package didi

import (
	"fmt"
	"io"

	"github.com/junioryono/didi/internal/graph"
)

// Graph is a static view of the providers and config references reachable
// from a set of values through their keyword arguments. Building it resolves
// nothing.
type Graph struct {
	deps *graph.DependencyGraph
}

// Inspect builds the dependency graph of the given values.
//
//	g := didi.Inspect(service)
//	g.WriteDOT(os.Stdout)
//
// Keyword arguments are fixed when a provider is declared and can only
// point at values that already exist, so the graph is always acyclic.
func Inspect(lazies ...Lazy) *Graph {
	g := &Graph{deps: graph.NewDependencyGraph()}
	seen := make(map[graph.NodeKey]bool)

	var add func(l Lazy)
	add = func(l Lazy) {
		n, ok := newGraphNode(l)
		if !ok || seen[n.key] {
			return
		}
		seen[n.key] = true

		// AddProvider only fails for a nil node.
		_ = g.deps.AddProvider(n)

		for _, dep := range n.lazies {
			add(dep)
		}
	}

	for _, l := range lazies {
		add(l)
	}

	return g
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return g.deps.Size()
}

// Order returns node labels in construction order: every node comes after
// the nodes it depends on.
func (g *Graph) Order() ([]string, error) {
	nodes, err := g.deps.TopologicalSort()
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(nodes))
	for i, n := range nodes {
		labels[i] = n.Label
	}
	return labels, nil
}

// WriteDOT writes the graph in Graphviz DOT format.
func (g *Graph) WriteDOT(w io.Writer) error {
	return graph.NewVisualizer(g.deps).WriteDOT(w)
}

// WriteText writes a readable listing of the graph grouped by depth.
func (g *Graph) WriteText(w io.Writer) error {
	return graph.NewVisualizer(g.deps).WriteText(w)
}

// graphNode adapts a provider or config reference to graph.Provider.
type graphNode struct {
	key    graph.NodeKey
	label  string
	kind   string
	lazies []Lazy
}

func newGraphNode(l Lazy) (*graphNode, bool) {
	switch v := l.(type) {
	case *AttrRef:
		if v == nil {
			return nil, false
		}
		return &graphNode{
			key:   attrKey(v),
			label: v.slot.slotName() + "." + v.name,
			kind:  "config",
		}, true
	case declared:
		if isNilLazy(v) {
			return nil, false
		}
		p := v.base()
		n := &graphNode{
			key:   graph.NodeKey(p.id),
			label: p.name,
			kind:  p.kind.String(),
		}
		for _, kw := range p.kwargs {
			if dep, ok := kw.Value.(Lazy); ok {
				n.lazies = append(n.lazies, dep)
			}
		}
		return n, true
	default:
		return nil, false
	}
}

func (n *graphNode) GetKey() graph.NodeKey { return n.key }

func (n *graphNode) GetLabel() string { return n.label }

func (n *graphNode) GetKind() string { return n.kind }

func (n *graphNode) GetDependencies() []graph.NodeKey {
	keys := make([]graph.NodeKey, 0, len(n.lazies))
	for _, l := range n.lazies {
		if dep, ok := newGraphNode(l); ok {
			keys = append(keys, dep.key)
		}
	}
	return keys
}

// attrKey identifies an attribute of a particular slot. Two references to
// the same attribute share a node.
func attrKey(r *AttrRef) graph.NodeKey {
	return graph.NodeKey(fmt.Sprintf("attr:%p.%s", r.slot, r.name))
}
