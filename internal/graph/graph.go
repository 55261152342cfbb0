package graph

import (
	"fmt"
	"sync"
)

// Provider is a node source. The root package adapts providers and config
// references to it.
type Provider interface {
	// GetKey returns the node's unique identity.
	GetKey() NodeKey

	// GetLabel returns the display name.
	GetLabel() string

	// GetKind returns the lifecycle policy name, or "config" for references.
	GetKind() string

	// GetDependencies returns the keys this node's keyword arguments point at,
	// in declaration order.
	GetDependencies() []NodeKey
}

// NodeKey uniquely identifies a node in the graph.
type NodeKey string

// Node represents a provider or config reference in the dependency graph.
type Node struct {
	Key   NodeKey
	Label string
	Kind  string

	Dependencies []NodeKey // nodes this node depends on
	Dependents   []NodeKey // nodes that depend on this node
	Depth        int       // longest path to a node without dependencies
}

// DependencyGraph records which providers feed which.
// It provides topological sorting and depth analysis, and reports cycles.
type DependencyGraph struct {
	mu    sync.RWMutex
	nodes map[NodeKey]*Node
	order []NodeKey // insertion order, for deterministic output
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[NodeKey]*Node),
	}
}

// AddProvider adds a node and its outgoing edges. Dependencies that have not
// been added yet get placeholder nodes that a later AddProvider fills in.
func (g *DependencyGraph) AddProvider(provider Provider) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := provider.GetKey()
	node := g.ensure(key)
	node.Label = provider.GetLabel()
	node.Kind = provider.GetKind()

	deps := provider.GetDependencies()
	node.Dependencies = make([]NodeKey, 0, len(deps))
	for _, dep := range deps {
		if dep == "" {
			continue
		}
		g.ensure(dep)
		node.Dependencies = appendUnique(node.Dependencies, dep)
	}

	g.rebuildDependents()
	return nil
}

func (g *DependencyGraph) ensure(key NodeKey) *Node {
	node, ok := g.nodes[key]
	if !ok {
		node = &Node{Key: key, Label: string(key)}
		g.nodes[key] = node
		g.order = append(g.order, key)
	}
	return node
}

func (g *DependencyGraph) rebuildDependents() {
	for _, node := range g.nodes {
		node.Dependents = node.Dependents[:0]
	}
	for _, key := range g.order {
		for _, dep := range g.nodes[key].Dependencies {
			g.nodes[dep].Dependents = append(g.nodes[dep].Dependents, key)
		}
	}
}

// TopologicalSort returns nodes in dependency order (dependencies first).
// Ties keep insertion order.
func (g *DependencyGraph) TopologicalSort() ([]*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Node, 0, len(g.nodes))
	err := g.walk(func(n *Node) {
		result = append(result, n)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

const (
	unvisited = iota
	visiting
	done
)

// walk visits nodes depth first, calling visit after all dependencies.
func (g *DependencyGraph) walk(visit func(*Node)) error {
	state := make(map[NodeKey]int, len(g.nodes))
	var stack []NodeKey

	var dfs func(key NodeKey) error
	dfs = func(key NodeKey) error {
		switch state[key] {
		case done:
			return nil
		case visiting:
			return g.cycleError(stack, key)
		}

		state[key] = visiting
		stack = append(stack, key)

		for _, dep := range g.nodes[key].Dependencies {
			if err := dfs(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		state[key] = done
		visit(g.nodes[key])
		return nil
	}

	for _, key := range g.order {
		if err := dfs(key); err != nil {
			return err
		}
	}
	return nil
}

func (g *DependencyGraph) cycleError(stack []NodeKey, key NodeKey) error {
	start := 0
	for i, k := range stack {
		if k == key {
			start = i
			break
		}
	}

	path := make([]string, 0, len(stack)-start)
	for _, k := range stack[start:] {
		path = append(path, g.nodes[k].Label)
	}

	return &CircularDependencyError{Node: g.nodes[key].Label, Path: path}
}

// CalculateDepths assigns depth levels to nodes based on their dependencies.
// Nodes without dependencies have depth 0.
func (g *DependencyGraph) CalculateDepths() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.walk(func(n *Node) {
		n.Depth = 0
		for _, dep := range n.Dependencies {
			if d := g.nodes[dep].Depth + 1; d > n.Depth {
				n.Depth = d
			}
		}
	})
}

// GetRoots returns all nodes nothing else depends on.
func (g *DependencyGraph) GetRoots() []*Node {
	return g.filter(func(n *Node) bool { return len(n.Dependents) == 0 })
}

// GetLeaves returns all nodes without dependencies.
func (g *DependencyGraph) GetLeaves() []*Node {
	return g.filter(func(n *Node) bool { return len(n.Dependencies) == 0 })
}

func (g *DependencyGraph) filter(keep func(*Node) bool) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Node, 0)
	for _, key := range g.order {
		if n := g.nodes[key]; keep(n) {
			out = append(out, n)
		}
	}
	return out
}

// Size returns the number of nodes in the graph
func (g *DependencyGraph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

func appendUnique(keys []NodeKey, key NodeKey) []NodeKey {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}
