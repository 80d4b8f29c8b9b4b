// # internal/engine/scanner/scan.go
package scanner

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// Options configures the first pass.
type Options struct {
	// ExcludeNoStepIn skips every line of modules declared NOSTEPIN, from
	// the MODULE header through ENDMODULE.
	ExcludeNoStepIn bool
	Classifier      Classifier
}

// Scanner runs the first pass over single files. It holds no per-file state
// and is safe to share between goroutines.
type Scanner struct {
	classifier      Classifier
	excludeNoStepIn bool
}

func New(opts Options) *Scanner {
	c := opts.Classifier
	if c == nil {
		c = NewClassifier()
	}
	return &Scanner{classifier: c, excludeNoStepIn: opts.ExcludeNoStepIn}
}

// ScanFile reads, decodes and scans path.
func (s *Scanner) ScanFile(path string) (*Result, error) {
	lines, err := ReadLines(path)
	if err != nil {
		return nil, err
	}
	return s.Scan(path, lines), nil
}

// scanState is the mutable state of one Scan call.
type scanState struct {
	metrics *FileMetrics
	procs   []*Procedure

	fallbackModule string
	module         string
	inNoStepIn     bool
	current        *Procedure
	nesting        int
}

// Scan runs the first pass over already decoded lines of path.
func (s *Scanner) Scan(path string, lines []string) *Result {
	st := &scanState{
		metrics:        newFileMetrics(path),
		fallbackModule: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	for i, raw := range lines {
		st.step(s, i+1, s.classifier.Classify(raw))
	}

	m := st.metrics
	if m.TotalLines > 0 {
		m.AvgIndent = float64(m.IndentSum) / float64(m.TotalLines)
	}
	if m.DepthComplexity < m.SimpleComplexity {
		m.DepthComplexity = m.SimpleComplexity
	}

	slog.Debug("file scanned",
		"path", path,
		"total", m.TotalLines,
		"code", m.CodeLines,
		"comments", m.CommentLines,
		"complexity", m.SimpleComplexity,
		"max_nesting", m.MaxNesting,
		"procedures", len(st.procs),
	)
	return &Result{Metrics: m, Procedures: st.procs}
}

func (st *scanState) step(s *Scanner, lineNo int, line Line) {
	m := st.metrics

	if !st.inNoStepIn && line.ModuleName != "" {
		st.module = line.ModuleName
		if s.excludeNoStepIn && line.NoStepIn {
			st.inNoStepIn = true
			return
		}
	}
	if st.inNoStepIn {
		if line.ModuleEnd {
			st.inNoStepIn = false
			st.module = ""
		}
		return
	}
	if line.ModuleEnd {
		st.module = ""
	}

	switch line.Kind {
	case KindDecorative:
		return
	case KindComment:
		m.TotalLines++
		m.CommentLines++
		return
	case KindBlank:
		m.TotalLines++
		return
	}

	m.TotalLines++
	m.CodeLines++

	if line.WaitTime {
		m.WaitTimeLines = append(m.WaitTimeLines, lineNo)
	}
	if line.Declared != "" {
		m.Declared[line.Declared] = true
		m.VariableNames[line.Declared] = true
	} else {
		for _, id := range line.Identifiers {
			m.Uses[id] = true
		}
	}
	m.IndentSum += line.Indent
	for _, sig := range line.Signals {
		m.VariableNames[sig] = true
	}
	if line.DispatchPrefix != "" {
		m.DynamicPrefixes[strings.ToLower(line.DispatchPrefix)] = true
	}

	if line.ProcName != "" {
		module := st.module
		if module == "" {
			module = st.fallbackModule
		}
		p := newProcedure(module, m.Path, line.ProcName, lineNo)
		st.current = p
		st.procs = append(st.procs, p)
		m.Procedures = append(m.Procedures, p.FQName)
		return
	}
	if line.ProcEnd {
		st.current = nil
	}

	if line.Closes && st.nesting > 0 {
		st.nesting--
	}
	if line.Opens {
		m.SimpleComplexity++
		st.nesting++
		if st.nesting > m.MaxNesting {
			m.MaxNesting = st.nesting
			m.MaxNestingLine = lineNo
			m.MaxNestingProc = ""
			if st.current != nil {
				m.MaxNestingProc = st.current.FQName
			}
		}
		m.DepthComplexity += st.nesting
	}
	if line.Branches {
		m.SimpleComplexity++
		m.DepthComplexity += st.nesting
	}

	if st.current != nil {
		st.current.addLine(line.Raw)
	}
}
