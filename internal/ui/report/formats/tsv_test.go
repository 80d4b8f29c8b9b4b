package formats

import (
	"strings"
	"testing"

	"rapidscore/internal/engine/scoring"
)

func TestTSVGenerator_GenerateSummary(t *testing.T) {
	gen := NewTSVGenerator("/p")
	out, err := gen.GenerateSummary(scoring.ProjectSummary{Files: 2, TotalLines: 28, TotalComplexity: 6, Score: 66.54, UniqueVariables: 3})
	if err != nil {
		t.Fatalf("generate summary: %v", err)
	}
	want := "Files\tTotal lines\tTotal complexity\tAvg code score\tUnique variables\n2\t28\t6\t66.5\t3\n"
	if out != want {
		t.Fatalf("unexpected summary:\n%q\nwant\n%q", out, want)
	}
}

func TestTSVGenerator_GenerateSummaryEmpty(t *testing.T) {
	out, _ := NewTSVGenerator("").GenerateSummary(scoring.ProjectSummary{})
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected header only, got %q", out)
	}
}

func TestTSVGenerator_GenerateFiles(t *testing.T) {
	out, err := NewTSVGenerator("/p").GenerateFiles(sampleFiles())
	if err != nil {
		t.Fatalf("generate files: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(lines))
	}
	cols := strings.Split(lines[2], "\t")
	if cols[0] != "lib/Tools.sys" {
		t.Fatalf("expected relative path, got %q", cols[0])
	}
	if cols[len(cols)-1] != "41.00" {
		t.Fatalf("expected score column 41.00, got %q", cols[len(cols)-1])
	}
}

func TestTSVGenerator_GenerateProcedures(t *testing.T) {
	out, _ := NewTSVGenerator("/p").GenerateProcedures(sampleFiles())
	if !strings.Contains(out, "Tools::Orphan\tlib/Tools.sys\t4\t0\t-1\tunreachable\n") {
		t.Fatalf("missing unreachable row:\n%s", out)
	}
}
