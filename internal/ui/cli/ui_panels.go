package cli

import (
	"fmt"
	"strings"

	"rapidscore/internal/data/history"
	"rapidscore/internal/ui/report"
	"rapidscore/internal/ui/report/formats"
)

func renderHelp(m model) string {
	keys := "Keys: tab panel | / filter | enter details | o open source | r rerun | t trend | q quit"
	switch {
	case m.mode != panelFiles:
		keys = "Keys: tab panel | up/down scroll | r rerun | t trend | q quit"
	case m.showDetails:
		keys = "Keys: esc back | up/down scroll | o open source | t trend | q quit"
	}
	return statusStyle.Render(keys)
}

func renderStatus(m model) string {
	if m.running {
		return statusStyle.Render("Analyzing...")
	}
	files := 0
	if m.result != nil {
		files = len(m.result.Files)
	}
	return statusStyle.Render(fmt.Sprintf("Last update: %s | %d files", m.lastUpdate.Format("15:04:05"), files))
}

func renderSummary(m model) string {
	if m.result == nil {
		return ""
	}
	s := m.result.Summary
	return fmt.Sprintf("%s | unreachable %d | unused %d | WaitTime %d",
		bandStyle(s.Score).Render(fmt.Sprintf("score %.1f", s.Score)),
		s.Unreachable, s.UnusedVars, s.WaitTimes)
}

// refreshDetail renders the viewport content for the current panel.
func refreshDetail(m model) model {
	if m.result == nil {
		m.detail.SetContent("")
		return m
	}
	switch m.mode {
	case panelTree:
		m.detail.SetContent(callTree(m.result))
	case panelWaitTimes:
		m.detail.SetContent(formats.WaitTimeText(report.WaitTimeBlocks(m.result.Files, report.WaitTimeRadius)))
	default:
		if !m.showDetails {
			return m
		}
		idx, ok := selectedFile(m)
		if !ok {
			m.showDetails = false
			return m
		}
		m.detail.SetContent(formats.FileDetails(m.result.Files[idx]))
	}
	m.detail.GotoTop()
	return m
}

func renderTrendOverlay(report *history.TrendReport) string {
	if report == nil || len(report.Points) == 0 {
		return statusStyle.Render("Trend overlay unavailable (enable --history to capture snapshots).")
	}
	last := report.Points[len(report.Points)-1]
	return strings.Join([]string{
		"Trend Overlay",
		fmt.Sprintf("  Window: %s | Runs: %d", report.Window, report.RunCount),
		fmt.Sprintf("  Score: %.1f (%+.2f, avg %.2f)", last.Score, last.DeltaScore, last.AvgScore),
		fmt.Sprintf("  Files: %d (%+d) | Lines: %d (%+d)", last.FileCount, last.DeltaFiles, last.TotalLines, last.DeltaLines),
		fmt.Sprintf("  Unreachable delta: %+d | Unused delta: %+d | Bad word delta: %+d",
			last.DeltaUnreachable, last.DeltaUnusedVars, last.DeltaBadWords),
	}, "\n")
}
