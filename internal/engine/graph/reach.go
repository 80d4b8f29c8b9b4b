// # internal/engine/graph/reach.go
package graph

import "log/slog"

// DepthMap holds the shortest call distance from the nearest MAIN. Absent
// procedures are not reachable from any entry point.
type DepthMap map[string]int

// Reachable reports whether fq has a depth.
func (d DepthMap) Reachable(fq string) bool {
	_, ok := d[fq]
	return ok
}

// ComputeDepths runs a breadth-first search from every entry point at once.
// Each procedure gets its depth the first time it is reached, so cycles end
// the walk instead of inflating depths. Without an entry point the result is
// empty.
func ComputeDepths(reg *Registry, g CallGraph) DepthMap {
	depths := make(DepthMap)
	entries := reg.EntryPoints()
	if len(entries) == 0 {
		slog.Debug("no MAIN procedure found, call depths unknown")
		return depths
	}

	queue := make([]string, 0, len(entries))
	for _, fq := range entries {
		depths[fq] = 0
		queue = append(queue, fq)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		next := depths[current] + 1
		for _, callee := range g.Callees(current) {
			if _, seen := depths[callee]; seen {
				continue
			}
			depths[callee] = next
			queue = append(queue, callee)
		}
	}
	return depths
}
