package tools

import (
	"sort"

	"github.com/avrlang/rpnc/ast"
)

// MemoryUsage collects every line that stores to or recalls one named
// memory, grounded on the teacher's per-symbol reference report.
type MemoryUsage struct {
	Name    string
	Stores  []int
	Recalls []int
}

// CrossReference walks one AST per compiled top-level line and
// reports, for every named memory touched, which lines stored to it
// and which recalled it (spec §3.3).
func CrossReference(trees []ast.Node) map[string]*MemoryUsage {
	usage := map[string]*MemoryUsage{}

	entry := func(name string) *MemoryUsage {
		u, ok := usage[name]
		if !ok {
			u = &MemoryUsage{Name: name}
			usage[name] = u
		}
		return u
	}

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		if n == nil {
			return
		}
		switch node := n.(type) {
		case *ast.StoreMem:
			u := entry(node.Name)
			u.Stores = append(u.Stores, node.Line())
			walk(node.Value)
		case *ast.RecallMem:
			u := entry(node.Name)
			u.Recalls = append(u.Recalls, node.Line())
		case *ast.Identifier:
			u := entry(node.Name)
			u.Recalls = append(u.Recalls, node.Line())
		case *ast.Expression:
			walk(node.Child)
		case *ast.Operation:
			walk(node.LHS)
			walk(node.RHS)
		case *ast.Condition:
			walk(node.LHS)
			walk(node.RHS)
		case *ast.Comparison:
			walk(node.LHS)
			walk(node.RHS)
		case *ast.If:
			walk(node.Condition)
			walk(node.Then)
			walk(node.Else)
		case *ast.While:
			walk(node.Condition)
			walk(node.Body)
		case *ast.CompoundBlock:
			for _, child := range node.Exprs {
				walk(child)
			}
		}
	}

	for _, tree := range trees {
		walk(tree)
	}

	return usage
}

// Names returns the named memories in usage, sorted for stable
// reporting output.
func Names(usage map[string]*MemoryUsage) []string {
	names := make([]string, 0, len(usage))
	for name := range usage {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
