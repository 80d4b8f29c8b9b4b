package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"rapidscore/internal/data/history"
)

func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRunID\tScore\tFiles\tLines\tComplexity\tUnreachable\tUnusedVars\tBadWords\tDeltaScore\tDeltaFiles\tDeltaLines\tDeltaComplexity\tDeltaUnreachable\tDeltaUnusedVars\tDeltaBadWords\tAvgScore\tWindowHours\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\n",
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.RunID,
			point.Score,
			point.FileCount,
			point.TotalLines,
			point.TotalComplexity,
			point.UnreachableCount,
			point.UnusedVarCount,
			point.BadWordCount,
			point.DeltaScore,
			point.DeltaFiles,
			point.DeltaLines,
			point.DeltaComplexity,
			point.DeltaUnreachable,
			point.DeltaUnusedVars,
			point.DeltaBadWords,
			point.AvgScore,
			point.WindowHours,
		))
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

func RenderTrendYAML(report history.TrendReport) ([]byte, error) {
	return yaml.Marshal(report)
}

// RenderTrendText renders an aligned table for terminals.
func RenderTrendText(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder
	if len(report.Points) == 0 {
		buf.WriteString("No snapshots recorded.\n")
		return []byte(buf.String()), nil
	}

	fmt.Fprintf(&buf, "Project %s: %d runs, moving average over %s\n\n", report.ProjectKey, report.RunCount, report.Window)
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSCORE\tΔ\tAVG\tFILES\tLINES\tUNREACHABLE\tUNUSED\tBAD WORDS")
	for _, p := range report.Points {
		fmt.Fprintf(tw, "%s\t%.0f\t%+.1f\t%.1f\t%d\t%d\t%d\t%d\t%d\n",
			p.Timestamp.Local().Format("2006-01-02 15:04"),
			p.Score,
			p.DeltaScore,
			p.AvgScore,
			p.FileCount,
			p.TotalLines,
			p.UnreachableCount,
			p.UnusedVarCount,
			p.BadWordCount,
		)
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
