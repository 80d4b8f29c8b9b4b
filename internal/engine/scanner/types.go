// # internal/engine/scanner/types.go
package scanner

// Procedure is a PROC, FUNC or TRAP routine found by the first pass.
type Procedure struct {
	Module string
	File   string
	Name   string
	FQName string // module::name, or Name when the module is unknown
	Line   int    // header line number (1-based)

	// Body holds the raw code lines between the header and the matching
	// end marker. Comment and blank lines are not part of it.
	Body      []string
	CodeLines int
}

func newProcedure(module, file, name string, line int) *Procedure {
	fq := name
	if module != "" {
		fq = module + "::" + name
	}
	return &Procedure{
		Module: module,
		File:   file,
		Name:   name,
		FQName: fq,
		Line:   line,
	}
}

func (p *Procedure) addLine(line string) {
	p.Body = append(p.Body, line)
	p.CodeLines++
}

// FileMetrics is the per-file aggregate of the first pass. It is not
// modified once Scan returns.
type FileMetrics struct {
	Path string

	TotalLines   int
	CodeLines    int
	CommentLines int

	// SimpleComplexity counts decision points; DepthComplexity weights each
	// by its nesting level. Both start at 1 and DepthComplexity is never
	// below SimpleComplexity.
	SimpleComplexity int
	DepthComplexity  int

	MaxNesting     int
	MaxNestingLine int    // 0 when no block was opened
	MaxNestingProc string // fq name, empty outside any procedure

	IndentSum int
	AvgIndent float64

	VariableNames   map[string]bool // declarations plus I/O signal targets
	Declared        map[string]bool
	Uses            map[string]bool
	DynamicPrefixes map[string]bool // lower-cased CallByVar prefixes
	WaitTimeLines   []int

	Procedures []string // fq names in definition order
}

func newFileMetrics(path string) *FileMetrics {
	return &FileMetrics{
		Path:             path,
		SimpleComplexity: 1,
		DepthComplexity:  1,
		VariableNames:    make(map[string]bool),
		Declared:         make(map[string]bool),
		Uses:             make(map[string]bool),
		DynamicPrefixes:  make(map[string]bool),
	}
}

// Result bundles what a single file contributes to the analysis.
type Result struct {
	Metrics    *FileMetrics
	Procedures []*Procedure
}
