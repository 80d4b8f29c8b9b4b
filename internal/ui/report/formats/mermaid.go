// # internal/ui/report/formats/mermaid.go
package formats

import (
	"fmt"
	"sort"
	"strings"

	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/scoring"
)

const mermaidInit = "%%{init: {'theme': 'base', 'themeVariables': {'textColor': '#000000', 'primaryTextColor': '#000000', 'lineColor': '#333333'}, 'flowchart': {'nodeSpacing': 60, 'rankSpacing': 90, 'curve': 'basis'}}}%%\n"

// MermaidGenerator renders the procedure call graph as a flowchart with one
// subgraph per RAPID module.
type MermaidGenerator struct {
	registry *graph.Registry
	calls    graph.CallGraph
	depths   graph.DepthMap
	status   map[string]scoring.Status
}

func NewMermaidGenerator(reg *graph.Registry, g graph.CallGraph, depths graph.DepthMap) *MermaidGenerator {
	return &MermaidGenerator{registry: reg, calls: g, depths: depths}
}

// SetStatuses colours nodes by the classification of the scoring pass.
// Without it nodes are coloured by reachability alone.
func (m *MermaidGenerator) SetStatuses(files []scoring.FileScore) {
	m.status = make(map[string]scoring.Status)
	for _, f := range files {
		for _, p := range f.Procedures {
			m.status[p.FQName] = p.Status
		}
	}
}

func (m *MermaidGenerator) statusOf(fq string) scoring.Status {
	if s, ok := m.status[fq]; ok {
		return s
	}
	if p, ok := m.registry.Get(fq); ok && graph.IsEntryPoint(p) {
		return scoring.StatusEntryPoint
	}
	if m.depths.Reachable(fq) {
		return scoring.StatusReachable
	}
	return scoring.StatusUnreachable
}

func (m *MermaidGenerator) Generate() (string, error) {
	if m.registry == nil {
		return "", fmt.Errorf("mermaid: registry is nil")
	}

	var b strings.Builder
	b.WriteString(mermaidInit)
	b.WriteString("flowchart LR\n")

	names := m.registry.FQNames()
	ids := makeIDs(names)

	byModule := make(map[string][]string)
	for _, p := range m.registry.Procedures() {
		byModule[p.Module] = append(byModule[p.Module], p.FQName)
	}
	modules := make([]string, 0, len(byModule))
	for mod := range byModule {
		modules = append(modules, mod)
	}
	sort.Strings(modules)

	for _, mod := range modules {
		b.WriteString(fmt.Sprintf("  subgraph mod_%s[\"%s\"]\n", sanitizeID(mod), escapeLabel(nonEmpty(mod, "(no module)"))))
		for _, fq := range byModule[mod] {
			p, _ := m.registry.Get(fq)
			depth, reachable := m.depths[fq]
			b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids[fq], escapeLabel(procedureLabel(p.Name, depth, reachable))))
		}
		b.WriteString("  end\n")
	}

	b.WriteString("\n")
	for _, from := range m.calls.Callers() {
		for _, to := range m.calls.Callees(from) {
			fromID, ok := ids[from]
			if !ok {
				continue
			}
			toID, ok := ids[to]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s --> %s\n", fromID, toID))
		}
	}

	classes := map[scoring.Status][]string{}
	for _, fq := range names {
		s := m.statusOf(fq)
		classes[s] = append(classes[s], ids[fq])
	}

	b.WriteString("\n")
	writeClass(&b, "reachableNode", "fill:#f7fbff,stroke:#4d6480,stroke-width:1px,color:#000000", classes[scoring.StatusReachable])
	writeClass(&b, "entryNode", "fill:#e9f5ec,stroke:#2f7d32,stroke-width:2px,color:#000000", classes[scoring.StatusEntryPoint])
	writeClass(&b, "dynamicNode", "fill:#fff4e0,stroke:#b36b00,stroke-dasharray:4 3,color:#000000", classes[scoring.StatusDynamic])
	writeClass(&b, "unreachableNode", "fill:#ffecec,stroke:#cc0000,stroke-width:2px,color:#000000", classes[scoring.StatusUnreachable])

	b.WriteString("\n")
	b.WriteString("  subgraph legend_info[\"Legend\"]\n")
	b.WriteString("    legend_nodes[\"d=N = call depth from the nearest MAIN\"]\n")
	b.WriteString("    legend_colors[\"Green = MAIN, orange = CallByVar target, red = unreachable\"]\n")
	b.WriteString("  end\n")
	b.WriteString("  classDef legendNode fill:#fff8dc,stroke:#b8a24c,stroke-width:1px,color:#000000;\n")
	b.WriteString("  class legend_nodes,legend_colors legendNode;\n")

	return b.String(), nil
}

func writeClass(b *strings.Builder, name, style string, ids []string) {
	if len(ids) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("  classDef %s %s;\n", name, style))
	b.WriteString(fmt.Sprintf("  class %s %s;\n", strings.Join(ids, ","), name))
}
