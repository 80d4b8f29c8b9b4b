package formats

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"rapidscore/internal/core/ports"
)

// Export is the machine-readable document of one analysis run.
type Export struct {
	ports.AnalysisResult `yaml:",inline"`
	CallGraph            map[string][]string `json:"call_graph" yaml:"call_graph"`
	Depths               map[string]int      `json:"call_depths" yaml:"call_depths"`
}

func newExport(r *ports.AnalysisResult) Export {
	edges := make(map[string][]string, len(r.CallGraph))
	for _, caller := range r.CallGraph.Callers() {
		edges[caller] = r.CallGraph.Callees(caller)
	}
	depths := make(map[string]int, len(r.Depths))
	for fq, d := range r.Depths {
		depths[fq] = d
	}
	return Export{AnalysisResult: *r, CallGraph: edges, Depths: depths}
}

func ExportJSON(r *ports.AnalysisResult) ([]byte, error) {
	return json.MarshalIndent(newExport(r), "", "  ")
}

func ExportYAML(r *ports.AnalysisResult) ([]byte, error) {
	return yaml.Marshal(newExport(r))
}
