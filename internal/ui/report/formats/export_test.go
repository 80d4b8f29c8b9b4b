package formats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"rapidscore/internal/core/ports"
)

func sampleResult() *ports.AnalysisResult {
	reg, g, depths := sampleGraph()
	return &ports.AnalysisResult{
		Root:      "/p",
		Files:     sampleFiles(),
		Registry:  reg,
		CallGraph: g,
		Depths:    depths,
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(sampleResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "/p", doc["root"])
	assert.Len(t, doc["files"], 2)
	assert.Equal(t, map[string]any{"Main::main": []any{"Main::MoveHome"}}, doc["call_graph"])
	assert.Equal(t, float64(1), doc["call_depths"].(map[string]any)["Main::MoveHome"])
}

func TestExportYAML(t *testing.T) {
	data, err := ExportYAML(sampleResult())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, "/p", doc["root"])
	assert.Contains(t, doc, "call_graph")
	assert.Contains(t, doc, "summary")
}
