package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rapidscore/internal/core/app"
	"rapidscore/internal/core/config"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
	"rapidscore/internal/engine/graph"
	"rapidscore/internal/ui/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type words map[string]bool

func (w words) IsWord(token string) bool { return w[strings.ToLower(token)] }

func createTestFiles(t *testing.T, tmpDir string) {
	t.Helper()
	files := map[string]string{
		"MainModule.mod": `MODULE MainModule
    ! Cell controller
    VAR num stationIndex := 1;
    PERS num cycleCount := 0;
    PROC main()
        WHILE TRUE DO
            IF stationIndex > 2 THEN
                stationIndex := 1;
            ENDIF
            CallByVar "Station", stationIndex;
            WaitTime 0.5;
        ENDWHILE
    ENDPROC
ENDMODULE
`,
		"stations/Stations.mod": `MODULE Stations
    PROC Station1()
        TPWrite "Station2 is next";
    ENDPROC
    PROC Station2()
        Cleanup;
    ENDPROC
    PROC Cleanup()
    ENDPROC
    PROC Leftover()
    ENDPROC
ENDMODULE
`,
		"system/Base.sys": `MODULE Base(SYSMODULE, NOSTEPIN)
    PROC Hidden()
    ENDPROC
ENDMODULE
`,
		"notes.txt": "not RAPID\n",
	}
	for name, body := range files {
		path := filepath.Join(tmpDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
}

func newApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"), time.Second)
	require.NoError(t, err)
	a, err := app.NewWithDependencies(cfg, app.Dependencies{
		Oracle:  words{"station": true, "index": true, "cycle": true, "count": true},
		History: history.NewAdapter(store),
		Closers: []io.Closer{store},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestFullPipelineIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	cfg := config.DefaultConfig()
	cfg.History.Enabled = true
	svc := newApp(t, cfg).AnalysisService()

	ctx := context.Background()
	res, err := svc.Analyze(ctx, tmpDir)
	require.NoError(t, err)

	require.Len(t, res.Files, 3, "notes.txt is not a RAPID file")
	assert.Empty(t, res.Skipped)

	// NOSTEPIN modules are invisible by default.
	assert.False(t, res.Registry.HasName("hidden"))
	assert.True(t, res.CallGraph.HasEdge("MainModule::main", "Stations::Station1"))
	assert.True(t, res.CallGraph.HasEdge("MainModule::main", "Stations::Station2"))
	assert.True(t, res.CallGraph.HasEdge("Stations::Station2", "Stations::Cleanup"))
	assert.Equal(t, 2, res.Depths["Stations::Cleanup"])

	assert.Equal(t, 1, res.Summary.Unreachable)
	assert.Equal(t, 1, res.Summary.WaitTimes)
	assert.LessOrEqual(t, res.Summary.Score, 100.0)

	trees := graph.CallTree(res.CallGraph, graph.TreeRoots(res.Registry, res.CallGraph))
	require.Len(t, trees, 1)
	assert.Equal(t, "MainModule::main", trees[0][0].Name)

	for _, format := range report.Formats {
		data, err := report.Render(res, format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, data, format)
	}

	_, err = svc.Trend(ctx, ports.HistoryTrendRequest{ProjectKey: res.Root})
	require.Error(t, err)

	_, err = svc.CaptureSnapshot(ctx, res)
	require.NoError(t, err)
	trend, err := svc.Trend(ctx, ports.HistoryTrendRequest{ProjectKey: res.Root})
	require.NoError(t, err)
	assert.Equal(t, 1, trend.RunCount)
	assert.InDelta(t, res.Summary.Score, trend.Points[0].Score, 0.01)
}

func TestFirstVariantDispatchLeavesLaterVariantsDynamic(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFiles(t, tmpDir)

	cfg := config.DefaultConfig()
	cfg.Analysis.DynamicDispatch = "first"
	cfg.Analysis.ExcludeNoStepIn = false

	res, err := newApp(t, cfg).AnalysisService().Analyze(context.Background(), tmpDir)
	require.NoError(t, err)

	assert.True(t, res.Registry.HasName("hidden"))
	assert.True(t, res.CallGraph.HasEdge("MainModule::main", "Stations::Station1"))
	assert.False(t, res.CallGraph.HasEdge("MainModule::main", "Stations::Station2"))

	var unreachable []string
	found := false
	for _, f := range res.Files {
		if filepath.Base(f.Path) == "Stations.mod" {
			unreachable, found = f.Unreachable, true
		}
	}
	require.True(t, found)
	// Station2 is only reachable through CallByVar, so it counts as dynamic;
	// Cleanup hangs off it and is reported.
	assert.ElementsMatch(t, []string{"Cleanup", "Leftover"}, unreachable)
}
