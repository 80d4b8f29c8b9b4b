// # internal/ui/report/formats/text.go
package formats

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/scoring"
)

// SummaryLine is the one-line project summary.
func SummaryLine(s scoring.ProjectSummary) string {
	if s.Files == 0 {
		return "No RAPID files found."
	}
	return fmt.Sprintf(
		"Files: %d | Total lines: %d | Total complexity: %d | Code score: %.0f/100 | Unique variables (project): %d",
		s.Files, s.TotalLines, s.TotalComplexity, s.Score, s.UniqueVariables,
	)
}

// WriteFileTable writes one aligned row per file.
func WriteFileTable(w io.Writer, files []scoring.FileScore, root string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLINES\tCOMPLEXITY\tSCORE\tBAD WORDS\tUNREACHABLE\tUNUSED VARS")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.0f\t%d\t%d\t%d\n",
			relPath(root, f.Path),
			f.TotalLines,
			f.SimpleComplexity,
			f.Score,
			len(f.BadWords),
			len(f.Unreachable),
			len(f.UnusedVars),
		)
	}
	return tw.Flush()
}

// FileDetails renders every metric of one file as labelled lines.
func FileDetails(f scoring.FileScore) string {
	const label = "%-22s"
	row := func(name string, value any) string {
		return fmt.Sprintf(label+"%v", name+":", value)
	}

	var lines []string
	lines = append(lines, "File: "+f.Path, "")
	lines = append(lines,
		row("Total lines", f.TotalLines),
		row("Code lines", f.CodeLines),
		row("Comment lines", f.CommentLines),
		row("Comment ratio", fmt.Sprintf("%.0f %%", f.CommentRatio*100)),
		row("Simple complexity", f.SimpleComplexity),
		row("Depth complexity", f.DepthComplexity),
	)
	if f.MaxNestingLine > 0 {
		where := nonEmpty(f.MaxNestingProc, "module level")
		lines = append(lines, row("Max nesting depth", fmt.Sprintf("%d (at line %d in %s)", f.MaxNesting, f.MaxNestingLine, where)))
	} else {
		lines = append(lines, row("Max nesting depth", f.MaxNesting))
	}
	lines = append(lines, row("Max call-chain depth", f.MaxCallDepth), "")

	lines = append(lines,
		row("Procedures", f.ProcCount),
		row("Biggest procedure", fmt.Sprintf("%d (%.1f%% of code)", f.BiggestProcLines, f.BiggestProcRatio*100)),
		row("Unreachable procs", len(f.Unreachable)),
	)
	lines = append(lines, wrapList(f.Unreachable, fmt.Sprintf(label, "  Names:"), 5)...)

	lines = append(lines, "", row("Unused variables", len(f.UnusedVars)))
	lines = append(lines, wrapList(f.UnusedVars, fmt.Sprintf(label, "  Names:"), 5)...)

	lines = append(lines, "",
		row("Unique variables", len(f.Variables)),
		row("Variable naming score", fmt.Sprintf("%.0f / 100", f.NamingScore*100)),
		row("Bad words", len(f.BadWords)),
	)
	lines = append(lines, wrapList(f.BadWords, fmt.Sprintf(label, "  Words:"), 5)...)

	waits := make([]string, len(f.WaitTimeLines))
	for i, n := range f.WaitTimeLines {
		waits[i] = strconv.Itoa(n)
	}
	lines = append(lines, "", row("WaitTime calls", len(f.WaitTimeLines)))
	lines = append(lines, wrapList(waits, fmt.Sprintf(label, "  At lines:"), 5)...)

	lines = append(lines, "", row("Overall code score", fmt.Sprintf("%.0f / 100", f.Score)))
	return strings.Join(lines, "\n")
}

const cycleMarker = "(cycle detected, stopping here)"

// CallTreeText renders trees as "depth indent name" lines. hasMain selects
// the heading; a cycle row repeats the indentation of the node it closes.
func CallTreeText(trees [][]graph.TreeLine, hasMain bool) string {
	if len(trees) == 0 {
		return "No calls detected."
	}

	var b strings.Builder
	if hasMain {
		b.WriteString("=== Call tree from MAIN ===\n\n")
	} else {
		b.WriteString("=== Call tree (no MAIN found; showing all roots) ===\n\n")
	}
	for _, tree := range trees {
		for _, line := range tree {
			indent := strings.Repeat("  ", line.Depth)
			text := line.Name
			if line.Cycle {
				text = cycleMarker
			}
			fmt.Fprintf(&b, "%d %s%s\n", line.Depth, indent, text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ContextLine is one source line shown around a WaitTime call.
type ContextLine struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
	Hit    bool   `json:"hit" yaml:"hit"`
}

type WaitTimeCall struct {
	Line    int           `json:"line" yaml:"line"`
	Context []ContextLine `json:"context" yaml:"context"`
}

// WaitTimeBlock lists the WaitTime calls of one file.
type WaitTimeBlock struct {
	Path  string         `json:"path" yaml:"path"`
	Calls []WaitTimeCall `json:"calls" yaml:"calls"`
	Error string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// WaitTimeText renders blocks with the hit line marked by '>'.
func WaitTimeText(blocks []WaitTimeBlock) string {
	if len(blocks) == 0 {
		return "No WaitTime calls found in any analyzed file.\n"
	}

	var b strings.Builder
	for _, block := range blocks {
		fmt.Fprintf(&b, "File: %s\n", filepath.ToSlash(block.Path))
		if block.Error != "" {
			fmt.Fprintf(&b, "  (could not re-read file: %s)\n\n", block.Error)
			continue
		}
		writeWaitTimeCalls(&b, block.Calls)
		b.WriteString("\n")
	}
	return b.String()
}

func writeWaitTimeCalls(b *strings.Builder, calls []WaitTimeCall) {
	for _, call := range calls {
		fmt.Fprintf(b, "  WaitTime at line %d:\n", call.Line)
		for _, l := range call.Context {
			prefix := " "
			if l.Hit {
				prefix = ">"
			}
			fmt.Fprintf(b, "   %s %5d: %s\n", prefix, l.Number, l.Text)
		}
		b.WriteString("\n")
	}
}
