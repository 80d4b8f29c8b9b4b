package app

import (
	"context"
	"time"

	"rapidscore/internal/core/errors"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
)

// SnapshotFromResult condenses a run to its project-level numbers.
func SnapshotFromResult(r *ports.AnalysisResult) history.Snapshot {
	s := r.Summary
	return history.Snapshot{
		ProjectKey:       r.Root,
		Score:            s.Score,
		MeanScore:        s.MeanScore,
		FileCount:        s.Files,
		TotalLines:       s.TotalLines,
		TotalComplexity:  s.TotalComplexity,
		UniqueVariables:  s.UniqueVariables,
		UnreachableCount: s.Unreachable,
		UnusedVarCount:   s.UnusedVars,
		BadWordCount:     s.BadWords,
		WaitTimeCount:    s.WaitTimes,
	}
}

// CaptureSnapshot stores the outcome of result, keyed by its root folder.
func (a *App) CaptureSnapshot(ctx context.Context, result *ports.AnalysisResult) (history.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return history.Snapshot{}, err
	}
	if a.history == nil {
		return history.Snapshot{}, errors.New(errors.CodeNotSupported, "history is disabled")
	}
	if result == nil {
		return history.Snapshot{}, errors.New(errors.CodeValidationError, "result is required")
	}
	snap, err := a.history.SaveSnapshot(result.Root, SnapshotFromResult(result))
	if err != nil {
		return history.Snapshot{}, errors.AddContext(err, errors.CtxOperation, "save_snapshot")
	}
	return snap, nil
}

// Trend loads the snapshots of a project and derives run-to-run deltas.
func (a *App) Trend(ctx context.Context, req ports.HistoryTrendRequest) (history.TrendReport, error) {
	if err := ctx.Err(); err != nil {
		return history.TrendReport{}, err
	}
	if a.history == nil {
		return history.TrendReport{}, errors.New(errors.CodeNotSupported, "history is disabled")
	}
	snaps, err := a.history.LoadSnapshots(req.ProjectKey, req.Since)
	if err != nil {
		return history.TrendReport{}, errors.AddContext(err, errors.CtxOperation, "load_snapshots")
	}
	if len(snaps) == 0 {
		err := errors.New(errors.CodeNotFound, "no snapshots recorded")
		return history.TrendReport{}, errors.AddContext(err, errors.CtxPath, req.ProjectKey)
	}
	window := req.Window
	if window < 0 {
		window = 0
	}
	return history.BuildTrendReport(snaps, window)
}

// DefaultTrendWindow is the moving-average window used when none is chosen.
const DefaultTrendWindow = 24 * time.Hour
