package graph

import (
	"fmt"
	"strings"
)

// CircularDependencyError represents a circular dependency between providers.
type CircularDependencyError struct {
	Node string
	Path []string
}

func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	if len(e.Path) == 0 {
		fmt.Fprintf(&b, "    %s\n", e.Node)
		b.WriteString("      ↓\n")
		fmt.Fprintf(&b, "    %s (cycle)\n", e.Node)
		return b.String()
	}

	for i, node := range e.Path {
		fmt.Fprintf(&b, "    %s\n", node)
		if i < len(e.Path)-1 {
			b.WriteString("      ↓\n")
		}
	}
	b.WriteString("      ↓\n")
	fmt.Fprintf(&b, "    %s (cycle)\n", e.Path[0])

	return b.String()
}
