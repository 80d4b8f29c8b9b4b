package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/scanner"
	"rapidscore/internal/engine/scoring"
)

func sampleResult(t *testing.T) *ports.AnalysisResult {
	t.Helper()
	path := writeSample(t)
	reg := graph.NewRegistry()
	reg.Add(&scanner.Procedure{Module: "Main", File: path, Name: "main", FQName: "Main::main", Line: 2})
	files := []scoring.FileScore{{
		Path:          path,
		TotalLines:    7,
		WaitTimeLines: []int{4},
		Procedures:    []scoring.ProcedureStatus{{FQName: "Main::main", Name: "main", Line: 2, Status: scoring.StatusEntryPoint}},
		Score:         88,
	}}
	return &ports.AnalysisResult{
		Root:      filepath.Dir(path),
		Files:     files,
		Summary:   scoring.Summarize(files, 0, scoring.DefaultWeights()),
		Skipped:   []ports.SkippedFile{{Path: filepath.Join(filepath.Dir(path), "Broken.mod"), Error: "decode failed"}},
		Registry:  reg,
		CallGraph: graph.CallGraph{},
		Depths:    graph.DepthMap{"Main::main": 0},
	}
}

func TestRender_Formats(t *testing.T) {
	result := sampleResult(t)
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			out, err := Render(result, format)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}
}

func TestRender_Text(t *testing.T) {
	out, err := Render(sampleResult(t), "")
	require.NoError(t, err)
	body := string(out)
	assert.True(t, strings.HasPrefix(body, "Files: 1 | Total lines: 7"))
	assert.Contains(t, body, "Main.mod")
	assert.Contains(t, body, "skipped Broken.mod: decode failed")
}

func TestRender_MarkdownIncludesWaitTimesAndDiagram(t *testing.T) {
	out, err := Render(sampleResult(t), FormatMarkdown)
	require.NoError(t, err)
	body := string(out)
	assert.Contains(t, body, "| `Main.mod` | 4 |")
	assert.Contains(t, body, "```mermaid")
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(sampleResult(t), "dot")
	assert.Error(t, err)
}

func TestWriteOutputs(t *testing.T) {
	result := sampleResult(t)
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("intro\n<!-- rapidscore:callgraph:start -->\n<!-- rapidscore:callgraph:end -->\n"), 0o644))

	out := config.Output{
		TSV:     filepath.Join(dir, "out", "report.tsv"),
		JSON:    filepath.Join(dir, "out", "report.json"),
		Mermaid: readme,
	}
	require.NoError(t, WriteOutputs(result, out))

	tsv, err := os.ReadFile(out.TSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tsv), "Files\tTotal lines"))

	raw, err := os.ReadFile(out.JSON)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "call_depths")

	md, err := os.ReadFile(readme)
	require.NoError(t, err)
	assert.Contains(t, string(md), "intro\n<!-- rapidscore:callgraph:start -->\n```mermaid\n")

	_, err = os.Stat(filepath.Join(dir, "out", "report.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteOutputs_PlainMermaidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.mmd")
	require.NoError(t, WriteOutputs(sampleResult(t), config.Output{Mermaid: path}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flowchart LR")
}
