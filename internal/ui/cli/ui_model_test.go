package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/scanner"
	"rapidscore/internal/engine/scoring"
)

type stubService struct {
	result    *ports.AnalysisResult
	calls     int
	snapshots int
	lastCtx   context.Context
}

func (s *stubService) Analyze(ctx context.Context, _ string) (*ports.AnalysisResult, error) {
	s.calls++
	s.lastCtx = ctx
	return s.result, nil
}

func (s *stubService) CaptureSnapshot(context.Context, *ports.AnalysisResult) (history.Snapshot, error) {
	s.snapshots++
	return history.Snapshot{}, nil
}

func (s *stubService) Trend(context.Context, ports.HistoryTrendRequest) (history.TrendReport, error) {
	return history.TrendReport{}, nil
}

func (s *stubService) Watch(context.Context, string, func(*ports.AnalysisResult, error)) error {
	return nil
}

func sampleUIResult() *ports.AnalysisResult {
	reg := graph.NewRegistry()
	reg.Add(&scanner.Procedure{Module: "Main", Name: "main", FQName: "Main::main", File: "/p/Main.mod", Line: 2})
	reg.Add(&scanner.Procedure{Module: "Main", Name: "Orphan", FQName: "Main::Orphan", File: "/p/Main.mod", Line: 9})
	return &ports.AnalysisResult{
		Root: "/p",
		Files: []scoring.FileScore{
			{
				Path:           "/p/Main.mod",
				TotalLines:     12,
				Score:          72,
				MaxNestingLine: 5,
				Unreachable:    []string{"Orphan"},
				Procedures: []scoring.ProcedureStatus{
					{FQName: "Main::main", Name: "main", Line: 2, Status: scoring.StatusEntryPoint},
					{FQName: "Main::Orphan", Name: "Orphan", Line: 9, Status: scoring.StatusUnreachable},
				},
			},
			{Path: "/p/lib/Util.sys", TotalLines: 4, Score: 95},
		},
		Summary:   scoring.ProjectSummary{Files: 2, Score: 83.5, Unreachable: 1},
		Registry:  reg,
		CallGraph: graph.CallGraph{},
	}
}

func TestModel_ResultPopulatesFileList(t *testing.T) {
	svc := &stubService{result: sampleUIResult()}
	m := initialModel(context.Background(), svc, "/p", nil, false, resultSink{})
	require.NotNil(t, m.Init())
	assert.True(t, m.running)

	updated, _ := m.Update(resultMsg{result: svc.result})
	state, ok := updated.(model)
	require.True(t, ok, "expected model type, got %T", updated)
	assert.False(t, state.running)
	assert.Len(t, state.fileList.Items(), 2)
	assert.Contains(t, state.View(), "score 83.5")
}

type ctxKey struct{}

func TestModel_InitialAnalysisRecordsSnapshotAndOutputs(t *testing.T) {
	svc := &stubService{result: sampleUIResult()}
	target := filepath.Join(t.TempDir(), "reports", "scores.json")
	sink := resultSink{
		history: true,
		outputs: func() config.Output { return config.Output{JSON: target} },
	}
	ctx := context.WithValue(context.Background(), ctxKey{}, "run")
	m := initialModel(ctx, svc, "/p", nil, false, sink)

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg, ok := cmd().(resultMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)

	assert.Equal(t, 1, svc.snapshots)
	assert.Equal(t, "run", svc.lastCtx.Value(ctxKey{}))
	assert.FileExists(t, target)
}

func TestModel_HistoryOffSkipsSnapshot(t *testing.T) {
	svc := &stubService{result: sampleUIResult()}
	m := initialModel(context.Background(), svc, "/p", nil, false, resultSink{})

	_ = m.Init()()
	assert.Equal(t, 1, svc.calls)
	assert.Zero(t, svc.snapshots)
}

func TestModel_WatchModeWaitsForPushedResults(t *testing.T) {
	m := initialModel(context.Background(), &stubService{}, "/p", nil, true, resultSink{})
	assert.Nil(t, m.Init())
}

func TestModel_TabCyclesPanels(t *testing.T) {
	m := initialModel(context.Background(), nil, "/p", nil, false, resultSink{})
	updated, _ := m.Update(resultMsg{result: sampleUIResult()})
	state := updated.(model)

	want := []panelMode{panelTree, panelWaitTimes, panelFiles}
	for _, mode := range want {
		updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
		state = updated.(model)
		assert.Equal(t, mode, state.mode)
	}
}

func TestModel_EnterShowsDetailsAndEscReturns(t *testing.T) {
	m := initialModel(context.Background(), nil, "/p", nil, false, resultSink{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated, _ = updated.(model).Update(resultMsg{result: sampleUIResult()})
	state := updated.(model)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state = updated.(model)
	require.True(t, state.showDetails)
	assert.Contains(t, state.detail.View(), "Main.mod")

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	state = updated.(model)
	assert.False(t, state.showDetails)
}

func TestModel_RerunAndTrendToggle(t *testing.T) {
	svc := &stubService{result: sampleUIResult()}
	m := initialModel(context.Background(), svc, "/p", &history.TrendReport{
		Window:   "24h0m0s",
		RunCount: 2,
		Points: []history.TrendPoint{
			{Timestamp: time.Now(), Score: 80},
			{Timestamp: time.Now(), Score: 83.5, DeltaScore: 3.5},
		},
	}, false, resultSink{})
	updated, _ := m.Update(resultMsg{result: svc.result})
	state := updated.(model)

	updated, cmd := state.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	state = updated.(model)
	require.NotNil(t, cmd)
	assert.True(t, state.running)
	msg := cmd()
	assert.Equal(t, 1, svc.calls)
	_, ok := msg.(resultMsg)
	assert.True(t, ok)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	state = updated.(model)
	assert.True(t, state.showTrend)
	assert.Contains(t, state.View(), "+3.50")
}

func TestModel_AnalysisErrorIsShown(t *testing.T) {
	m := initialModel(context.Background(), nil, "/p", nil, false, resultSink{})
	updated, _ := m.Update(resultMsg{err: assert.AnError})
	assert.Contains(t, updated.(model).View(), "Analysis failed")
}

func TestSelectedSourceTarget_PrefersUnreachableProcedure(t *testing.T) {
	m := initialModel(context.Background(), nil, "/p", nil, false, resultSink{})
	updated, _ := m.Update(resultMsg{result: sampleUIResult()})

	target, ok := selectedSourceTarget(updated.(model))
	require.True(t, ok)
	assert.Equal(t, "/p/Main.mod", target.file)
	assert.Equal(t, 9, target.line)

	assert.Equal(t, 1, hotLine(scoring.FileScore{}))
	assert.Equal(t, 5, hotLine(scoring.FileScore{MaxNestingLine: 5}))
}
