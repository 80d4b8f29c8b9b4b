package ports

import (
	"context"
	"time"

	"rapidscore/internal/data/history"
	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/scoring"
)

// WordOracle answers whether a token is a dictionary word. Implementations
// must be safe for concurrent use once constructed.
type WordOracle interface {
	IsWord(token string) bool
}

// HistoryStore abstracts snapshot persistence for trend reporting.
type HistoryStore interface {
	SaveSnapshot(projectKey string, snapshot history.Snapshot) (history.Snapshot, error)
	LoadSnapshots(projectKey string, since time.Time) ([]history.Snapshot, error)
}

// SkippedFile is a discovered file the first pass could not read or decode.
type SkippedFile struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// AnalysisResult is everything one run produces, in discovery order.
type AnalysisResult struct {
	Root     string                 `json:"root" yaml:"root"`
	Files    []scoring.FileScore    `json:"files" yaml:"files"`
	Summary  scoring.ProjectSummary `json:"summary" yaml:"summary"`
	Skipped  []SkippedFile          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Duration time.Duration          `json:"duration" yaml:"duration"`

	Registry  *graph.Registry `json:"-" yaml:"-"`
	CallGraph graph.CallGraph `json:"-" yaml:"-"`
	Depths    graph.DepthMap  `json:"-" yaml:"-"`
}

// UniqueVariables is the number of distinct variable-like names across
// every analyzed file.
func (r *AnalysisResult) UniqueVariables() int {
	return r.Summary.UniqueVariables
}

// HistoryTrendRequest selects snapshots for a trend report.
type HistoryTrendRequest struct {
	ProjectKey string
	Since      time.Time
	Window     time.Duration
}

// AnalysisService exposes analysis operations to driving adapters (CLI, TUI).
type AnalysisService interface {
	Analyze(ctx context.Context, root string) (*AnalysisResult, error)
	CaptureSnapshot(ctx context.Context, result *AnalysisResult) (history.Snapshot, error)
	Trend(ctx context.Context, req HistoryTrendRequest) (history.TrendReport, error)
	Watch(ctx context.Context, root string, onResult func(*AnalysisResult, error)) error
}
