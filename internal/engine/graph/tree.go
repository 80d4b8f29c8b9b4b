// # internal/engine/graph/tree.go
package graph

import "sort"

// TreeLine is one row of a rendered call tree.
type TreeLine struct {
	Depth int
	Name  string
	// Cycle marks the row that repeats a procedure already on the current
	// path; the walk does not descend below it.
	Cycle bool
}

// TreeRoots picks the roots of the call tree: the MAIN routines when there
// are any, otherwise every caller.
func TreeRoots(reg *Registry, g CallGraph) []string {
	roots := reg.EntryPoints()
	if len(roots) == 0 {
		return g.Callers()
	}
	sort.Strings(roots)
	return roots
}

type treeFrame struct {
	name  string
	depth int
	leave bool
}

// CallTree walks g depth-first from each root in order, children sorted.
// The walk uses an explicit stack and a per-root set of procedures on the
// current path, so deep or cyclic graphs cannot exhaust the goroutine stack.
func CallTree(g CallGraph, roots []string) [][]TreeLine {
	trees := make([][]TreeLine, 0, len(roots))
	for _, root := range roots {
		trees = append(trees, walkTree(g, root))
	}
	return trees
}

func walkTree(g CallGraph, root string) []TreeLine {
	var lines []TreeLine
	onPath := make(map[string]bool)
	stack := []treeFrame{{name: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.leave {
			delete(onPath, f.name)
			continue
		}

		lines = append(lines, TreeLine{Depth: f.depth, Name: f.name})
		if onPath[f.name] {
			lines = append(lines, TreeLine{Depth: f.depth, Name: f.name, Cycle: true})
			continue
		}
		onPath[f.name] = true
		stack = append(stack, treeFrame{name: f.name, leave: true})

		callees := g.Callees(f.name)
		for i := len(callees) - 1; i >= 0; i-- {
			stack = append(stack, treeFrame{name: callees[i], depth: f.depth + 1})
		}
	}
	return lines
}
