// # internal/engine/scoring/engine.go
package scoring

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/lexicon"
	"rapidscore/internal/engine/scanner"
)

// Status is the reachability classification of a procedure.
type Status string

const (
	StatusReachable   Status = "reachable"
	StatusEntryPoint  Status = "entry"
	StatusDynamic     Status = "dynamic"
	StatusUnreachable Status = "unreachable"
)

// ProcedureStatus describes one procedure of a scored file.
type ProcedureStatus struct {
	FQName    string `json:"fq_name" yaml:"fq_name"`
	Name      string `json:"name" yaml:"name"`
	Line      int    `json:"line" yaml:"line"`
	CodeLines int    `json:"code_lines" yaml:"code_lines"`
	Depth     int    `json:"depth" yaml:"depth"` // -1 when unreachable from MAIN
	Status    Status `json:"status" yaml:"status"`
}

// Penalties are the individual, already capped, score deductions.
type Penalties struct {
	Complexity float64 `json:"complexity" yaml:"complexity"`
	Nesting    float64 `json:"nesting" yaml:"nesting"`
	CallDepth  float64 `json:"call_depth" yaml:"call_depth"`
	ProcCount  float64 `json:"proc_count" yaml:"proc_count"`
	ProcSize   float64 `json:"proc_size" yaml:"proc_size"`
	FileSize   float64 `json:"file_size" yaml:"file_size"`
	UnusedVars float64 `json:"unused_vars" yaml:"unused_vars"`
	BadWords   float64 `json:"bad_words" yaml:"bad_words"`
	Comments   float64 `json:"comments" yaml:"comments"`
}

func (p Penalties) Total() float64 {
	return p.Complexity + p.Nesting + p.CallDepth + p.ProcCount + p.ProcSize +
		p.FileSize + p.UnusedVars + p.BadWords + p.Comments
}

// FileScore is the final per-file record handed to reports and the UI.
type FileScore struct {
	Path string `json:"path" yaml:"path"`

	TotalLines       int      `json:"total_lines" yaml:"total_lines"`
	CodeLines        int      `json:"code_lines" yaml:"code_lines"`
	CommentLines     int      `json:"comment_lines" yaml:"comment_lines"`
	SimpleComplexity int      `json:"simple_complexity" yaml:"simple_complexity"`
	DepthComplexity  int      `json:"depth_complexity" yaml:"depth_complexity"`
	MaxNesting       int      `json:"max_nesting" yaml:"max_nesting"`
	MaxNestingLine   int      `json:"max_nesting_line,omitempty" yaml:"max_nesting_line,omitempty"`
	MaxNestingProc   string   `json:"max_nesting_proc,omitempty" yaml:"max_nesting_proc,omitempty"`
	AvgIndent        float64  `json:"avg_indent" yaml:"avg_indent"`
	Variables        []string `json:"variables" yaml:"variables"`
	Declared         []string `json:"declared" yaml:"declared"`
	DynamicPrefixes  []string `json:"dynamic_prefixes,omitempty" yaml:"dynamic_prefixes,omitempty"`
	WaitTimeLines    []int    `json:"waittime_lines,omitempty" yaml:"waittime_lines,omitempty"`

	CommentRatio     float64           `json:"comment_ratio" yaml:"comment_ratio"`
	CommentHealth    float64           `json:"comment_health" yaml:"comment_health"`
	NamingScore      float64           `json:"naming_score" yaml:"naming_score"`
	BadWords         []string          `json:"bad_words" yaml:"bad_words"`
	ProcCount        int               `json:"proc_count" yaml:"proc_count"`
	BiggestProcLines int               `json:"biggest_proc_lines" yaml:"biggest_proc_lines"`
	BiggestProcRatio float64           `json:"biggest_proc_ratio" yaml:"biggest_proc_ratio"`
	MaxCallDepth     int               `json:"max_call_depth" yaml:"max_call_depth"`
	Procedures       []ProcedureStatus `json:"procedures" yaml:"procedures"`
	Unreachable      []string          `json:"unreachable" yaml:"unreachable"`
	UnusedVars       []string          `json:"unused_vars" yaml:"unused_vars"`
	Penalties        Penalties         `json:"penalties" yaml:"penalties"`
	TotalPenalty     float64           `json:"total_penalty" yaml:"total_penalty"`
	Score            float64           `json:"score" yaml:"score"`
}

// Input is the project-wide context the third pass needs.
type Input struct {
	Files    []*scanner.FileMetrics
	Registry *graph.Registry
	Depths   graph.DepthMap
	// DynamicPrefixes and Uses are the unions over every file.
	DynamicPrefixes map[string]bool
	Uses            map[string]bool
}

// Engine computes file scores. It is used by a single goroutine.
type Engine struct {
	weights Weights
	naming  *lexicon.NamingScorer
}

func NewEngine(weights Weights, naming *lexicon.NamingScorer) *Engine {
	return &Engine{weights: weights, naming: naming}
}

// ScoreAll scores every file in input order.
func (e *Engine) ScoreAll(in Input) []FileScore {
	byFile := in.Registry.ByFile()
	prefixes := sortedKeys(in.DynamicPrefixes)
	out := make([]FileScore, 0, len(in.Files))
	for _, m := range in.Files {
		out = append(out, e.ScoreFile(m, byFile[m.Path], in.Depths, prefixes, in.Uses))
	}
	return out
}

// ScoreFile scores one file. procs are the registered procedures defined in
// it, prefixes the lower-cased CallByVar prefixes of the whole project and
// uses every identifier referenced anywhere in the project.
func (e *Engine) ScoreFile(m *scanner.FileMetrics, procs []*scanner.Procedure, depths graph.DepthMap, prefixes []string, uses map[string]bool) FileScore {
	fs := FileScore{
		Path:             m.Path,
		TotalLines:       m.TotalLines,
		CodeLines:        m.CodeLines,
		CommentLines:     m.CommentLines,
		SimpleComplexity: m.SimpleComplexity,
		DepthComplexity:  m.DepthComplexity,
		MaxNesting:       m.MaxNesting,
		MaxNestingLine:   m.MaxNestingLine,
		MaxNestingProc:   m.MaxNestingProc,
		AvgIndent:        m.AvgIndent,
		Variables:        sortedKeys(m.VariableNames),
		Declared:         sortedKeys(m.Declared),
		DynamicPrefixes:  sortedKeys(m.DynamicPrefixes),
		WaitTimeLines:    append([]int(nil), m.WaitTimeLines...),
		ProcCount:        len(procs),
		Procedures:       make([]ProcedureStatus, 0, len(procs)),
		Unreachable:      []string{},
		UnusedVars:       []string{},
	}

	if m.TotalLines > 0 {
		fs.CommentRatio = float64(m.CommentLines) / float64(m.TotalLines)
	}
	fs.CommentHealth = CommentHealth(fs.CommentRatio)

	bad := make(map[string]bool)
	fs.NamingScore = e.naming.Score(fs.Variables, bad)
	fs.BadWords = sortedKeys(bad)

	for _, name := range fs.Declared {
		if !uses[name] {
			fs.UnusedVars = append(fs.UnusedVars, name)
		}
	}

	procLineSum := 0
	for _, p := range procs {
		procLineSum += p.CodeLines
		if p.CodeLines > fs.BiggestProcLines {
			fs.BiggestProcLines = p.CodeLines
		}
		st := ProcedureStatus{FQName: p.FQName, Name: p.Name, Line: p.Line, CodeLines: p.CodeLines, Depth: -1}
		switch d, ok := depths[p.FQName]; {
		case ok:
			st.Depth = d
			st.Status = StatusReachable
			if d > fs.MaxCallDepth {
				fs.MaxCallDepth = d
			}
		case strings.EqualFold(p.Name, "main"):
			st.Status = StatusEntryPoint
		case hasAnyPrefix(strings.ToLower(p.Name), prefixes):
			st.Status = StatusDynamic
		default:
			st.Status = StatusUnreachable
			fs.Unreachable = append(fs.Unreachable, p.Name)
		}
		fs.Procedures = append(fs.Procedures, st)
	}

	denom := m.CodeLines
	if denom == 0 {
		denom = max(procLineSum, 1)
	}
	fs.BiggestProcRatio = float64(fs.BiggestProcLines) / float64(denom)

	fs.Penalties = e.penalties(fs, len(fs.UnusedVars), len(fs.BadWords))
	fs.TotalPenalty = fs.Penalties.Total()
	fs.Score = clamp(100-fs.TotalPenalty, 0, 100)

	slog.Debug("file scored",
		"path", fs.Path,
		"score", fs.Score,
		"comment_ratio", fs.CommentRatio,
		"naming", fs.NamingScore,
		"max_call_depth", fs.MaxCallDepth,
		"penalties", fs.Penalties,
	)
	return fs
}

func (e *Engine) penalties(fs FileScore, unused, badWords int) Penalties {
	w := e.weights
	total := float64(fs.TotalLines)
	procCount := float64(fs.ProcCount)

	var p Penalties
	p.Complexity = capped((float64(fs.SimpleComplexity)-w.ComplexityThreshold)*w.ComplexityFactor, w.ComplexityCap)
	p.Nesting = capped((float64(fs.MaxNesting)-w.NestingThreshold)*w.NestingFactor, w.NestingCap)
	p.CallDepth = capped((float64(fs.MaxCallDepth)-w.CallDepthThreshold)*w.CallDepthFactor, w.CallDepthCap)
	if procCount > w.ProcCountThreshold {
		p.ProcCount = capped((procCount-w.ProcCountThreshold)*w.ProcCountFactor, w.ProcCountCap)
	}
	if fs.BiggestProcRatio > w.ProcSizeRatio && total > w.ProcSizeMinLines {
		p.ProcSize = (fs.BiggestProcRatio - w.ProcSizeRatio) * w.ProcSizeFactor
	}
	if total > w.FileSizeThreshold && fs.ProcCount > 1 {
		p.FileSize = capped((total-w.FileSizeThreshold)*w.FileSizeFactor, w.FileSizeCap)
	}
	p.UnusedVars = capped(float64(unused)*w.UnusedFactor, w.UnusedCap)
	p.BadWords = capped(float64(badWords)*w.BadWordFactor, w.BadWordCap)
	p.Comments = math.Max(0, w.CommentBase-fs.CommentHealth*100*w.CommentFactor)
	return p
}

// capped floors v at 0 and limits it to limit.
func capped(v, limit float64) float64 {
	return math.Min(limit, math.Max(0, v))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
