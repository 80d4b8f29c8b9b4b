package report

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"rapidscore/internal/data/history"
)

func sampleTrend() history.TrendReport {
	return history.TrendReport{
		SchemaVersion: 1,
		ProjectKey:    "cell-7",
		Since:         time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		Until:         time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
		Window:        "24h0m0s",
		RunCount:      1,
		Points: []history.TrendPoint{
			{
				RunID:            uuid.MustParse("6f1c2a4e-93b1-4a8e-8f57-2d1d0c7b9a10"),
				Timestamp:        time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
				Score:            72.5,
				FileCount:        15,
				TotalLines:       1200,
				TotalComplexity:  88,
				UnreachableCount: 2,
				UnusedVarCount:   3,
				BadWordCount:     4,
				DeltaScore:       -1.5,
				AvgScore:         73,
				WindowHours:      24,
			},
		},
	}
}

func TestRenderTrendTSV(t *testing.T) {
	out, err := RenderTrendTSV(sampleTrend())
	if err != nil {
		t.Fatalf("render tsv: %v", err)
	}

	body := string(out)
	if !strings.Contains(body, "Timestamp\tRunID\tScore") {
		t.Fatalf("missing header in output: %s", body)
	}
	if !strings.Contains(body, "6f1c2a4e-93b1-4a8e-8f57-2d1d0c7b9a10\t72.50\t15\t1200\t88\t2\t3\t4\t-1.50") {
		t.Fatalf("missing row values in output: %s", body)
	}
}

func TestRenderTrendJSON(t *testing.T) {
	out, err := RenderTrendJSON(history.TrendReport{SchemaVersion: 1, RunCount: 2})
	if err != nil {
		t.Fatalf("render json: %v", err)
	}
	if !strings.Contains(string(out), "\"run_count\": 2") {
		t.Fatalf("missing run_count in json: %s", string(out))
	}
}

func TestRenderTrendYAML(t *testing.T) {
	out, err := RenderTrendYAML(sampleTrend())
	if err != nil {
		t.Fatalf("render yaml: %v", err)
	}
	if !strings.Contains(string(out), "project_key: cell-7") {
		t.Fatalf("missing project key in yaml: %s", string(out))
	}
}

func TestRenderTrendText(t *testing.T) {
	out, err := RenderTrendText(history.TrendReport{})
	if err != nil || string(out) != "No snapshots recorded.\n" {
		t.Fatalf("unexpected empty rendering %q (%v)", out, err)
	}

	out, err = RenderTrendText(sampleTrend())
	if err != nil {
		t.Fatalf("render text: %v", err)
	}
	body := string(out)
	if !strings.Contains(body, "Project cell-7: 1 runs") || !strings.Contains(body, "-1.5") {
		t.Fatalf("unexpected text output: %s", body)
	}
}
