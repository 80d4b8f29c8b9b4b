// # internal/ui/report/formats/tsv.go
package formats

import (
	"fmt"
	"strings"

	"rapidscore/internal/engine/scoring"
)

type TSVGenerator struct {
	root string
}

// NewTSVGenerator renders paths relative to root.
func NewTSVGenerator(root string) *TSVGenerator {
	return &TSVGenerator{root: root}
}

// GenerateSummary renders the project summary as a header plus one row.
func (t *TSVGenerator) GenerateSummary(s scoring.ProjectSummary) (string, error) {
	var buf strings.Builder

	buf.WriteString("Files\tTotal lines\tTotal complexity\tAvg code score\tUnique variables\n")
	if s.Files == 0 {
		return buf.String(), nil
	}
	buf.WriteString(fmt.Sprintf("%d\t%d\t%d\t%.1f\t%d\n",
		s.Files, s.TotalLines, s.TotalComplexity, s.Score, s.UniqueVariables))

	return buf.String(), nil
}

// GenerateFiles renders one row per file score.
func (t *TSVGenerator) GenerateFiles(files []scoring.FileScore) (string, error) {
	var buf strings.Builder

	buf.WriteString("File\tLines\tCode\tComments\tSimple\tDepth\tMaxNesting\tCallDepth\tProcs\tNaming\tBadWords\tUnreachable\tUnusedVars\tWaitTimes\tPenalty\tScore\n")
	for _, f := range files {
		buf.WriteString(fmt.Sprintf("%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%d\t%d\t%d\t%d\t%.2f\t%.2f\n",
			relPath(t.root, f.Path),
			f.TotalLines,
			f.CodeLines,
			f.CommentLines,
			f.SimpleComplexity,
			f.DepthComplexity,
			f.MaxNesting,
			f.MaxCallDepth,
			f.ProcCount,
			f.NamingScore,
			len(f.BadWords),
			len(f.Unreachable),
			len(f.UnusedVars),
			len(f.WaitTimeLines),
			f.TotalPenalty,
			f.Score,
		))
	}

	return buf.String(), nil
}

// GenerateProcedures renders every procedure with its reachability status.
func (t *TSVGenerator) GenerateProcedures(files []scoring.FileScore) (string, error) {
	var buf strings.Builder

	buf.WriteString("Procedure\tFile\tLine\tCodeLines\tDepth\tStatus\n")
	for _, f := range files {
		for _, p := range f.Procedures {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%s\n",
				p.FQName, relPath(t.root, f.Path), p.Line, p.CodeLines, p.Depth, p.Status))
		}
	}

	return buf.String(), nil
}
