// # internal/engine/graph/callgraph.go
package graph

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"rapidscore/internal/engine/scanner"
)

// DispatchMode selects how a CallByVar prefix is resolved.
type DispatchMode int

const (
	// DispatchAllVariants targets every fq name of every bare name that
	// starts with the prefix.
	DispatchAllVariants DispatchMode = iota
	// DispatchFirstVariant targets only the lexicographically first fq name
	// of the lexicographically first matching bare name.
	DispatchFirstVariant
)

func (m DispatchMode) String() string {
	if m == DispatchFirstVariant {
		return "first"
	}
	return "all"
}

// ParseDispatchMode accepts "all" and "first" (case-insensitive, empty means all).
func ParseDispatchMode(s string) (DispatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return DispatchAllVariants, nil
	case "first":
		return DispatchFirstVariant, nil
	default:
		return DispatchAllVariants, fmt.Errorf("unknown dispatch mode %q (want all or first)", s)
	}
}

// CallGraph maps a caller fq name to the set of its callee fq names. It may
// contain cycles, including self-edges.
type CallGraph map[string]map[string]bool

func (g CallGraph) addEdge(from, to string) {
	set, ok := g[from]
	if !ok {
		set = make(map[string]bool)
		g[from] = set
	}
	set[to] = true
}

// Callees returns the sorted callees of fq.
func (g CallGraph) Callees(fq string) []string {
	out := make([]string, 0, len(g[fq]))
	for callee := range g[fq] {
		out = append(out, callee)
	}
	sort.Strings(out)
	return out
}

// Callers returns the sorted fq names that have at least one outgoing edge.
func (g CallGraph) Callers() []string {
	out := make([]string, 0, len(g))
	for caller := range g {
		out = append(out, caller)
	}
	sort.Strings(out)
	return out
}

// HasEdge reports whether from calls to.
func (g CallGraph) HasEdge(from, to string) bool {
	return g[from][to]
}

// EdgeCount returns the number of distinct edges.
func (g CallGraph) EdgeCount() int {
	n := 0
	for _, callees := range g {
		n += len(callees)
	}
	return n
}

// FanIn counts distinct callers per callee.
func (g CallGraph) FanIn() map[string]int {
	out := make(map[string]int)
	for _, callees := range g {
		for callee := range callees {
			out[callee]++
		}
	}
	return out
}

// BuildCallGraph scans every registered procedure body for static name
// references and CallByVar prefixes.
func BuildCallGraph(reg *Registry, classifier scanner.Classifier, mode DispatchMode) CallGraph {
	if classifier == nil {
		classifier = scanner.NewClassifier()
	}
	g := make(CallGraph)
	bareNames := reg.BareNames()

	for _, p := range reg.Procedures() {
		for _, raw := range p.Body {
			line := classifier.Classify(raw)
			if line.Kind != scanner.KindCode || line.NoCalls {
				continue
			}

			for _, ident := range line.Identifiers {
				for _, callee := range reg.Lookup(ident) {
					g.addEdge(p.FQName, callee)
				}
			}

			if line.DispatchPrefix == "" {
				continue
			}
			targets := resolveDispatch(reg, bareNames, line.DispatchPrefix, mode)
			if len(targets) == 0 {
				slog.Debug("CallByVar prefix has no matching procedures", "caller", p.FQName, "prefix", line.DispatchPrefix)
			}
			for _, callee := range targets {
				g.addEdge(p.FQName, callee)
			}
		}
	}

	slog.Debug("call graph built", "callers", len(g), "edges", g.EdgeCount(), "mode", mode.String())
	return g
}

// resolveDispatch returns the fq targets of a CallByVar prefix. bareNames
// must be sorted.
func resolveDispatch(reg *Registry, bareNames []string, prefix string, mode DispatchMode) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	var targets []string
	for _, name := range bareNames {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		fqs := reg.Lookup(name)
		if mode == DispatchFirstVariant {
			if len(fqs) > 0 {
				return fqs[:1]
			}
			continue
		}
		targets = append(targets, fqs...)
	}
	return targets
}
