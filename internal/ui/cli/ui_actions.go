package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/engine/scoring"
	"rapidscore/internal/ui/report"
)

// resultSink persists a finished UI analysis the way a batch run does.
type resultSink struct {
	// history records a snapshot per result.
	history bool
	// outputs returns the configured report targets; nil writes none.
	outputs func() config.Output
}

func (k resultSink) record(ctx context.Context, service ports.AnalysisService, res *ports.AnalysisResult) {
	if res == nil {
		return
	}
	if k.outputs != nil {
		if err := report.WriteOutputs(res, k.outputs()); err != nil {
			slog.Warn("failed to write outputs", "error", err)
		}
	}
	if k.history {
		snap, err := service.CaptureSnapshot(ctx, res)
		if err != nil {
			slog.Warn("failed to record snapshot", "error", err)
			return
		}
		slog.Info("snapshot recorded", "run_id", snap.RunID, "score", snap.Score)
	}
}

func analyzeCmd(ctx context.Context, service ports.AnalysisService, root string, sink resultSink) tea.Cmd {
	return func() tea.Msg {
		res, err := service.Analyze(ctx, root)
		if err == nil {
			sink.record(ctx, service, res)
		}
		return resultMsg{result: res, err: err}
	}
}

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	filtering := m.mode == panelFiles && !m.showDetails && m.fileList.FilterState() == list.Filtering
	if filtering {
		var cmd tea.Cmd
		m.fileList, cmd = m.fileList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		m.mode = (m.mode + 1) % 3
		m.showDetails = false
		return refreshDetail(m), nil
	case "t":
		m.showTrend = !m.showTrend
		return m, nil
	case "r":
		if m.running || m.service == nil {
			return m, nil
		}
		m.running = true
		return m, analyzeCmd(m.ctx, m.service, m.root, m.sink)
	}

	if m.mode != panelFiles {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		if m.result == nil || len(m.result.Files) == 0 {
			return m, nil
		}
		m.showDetails = true
		return refreshDetail(m), nil
	case "esc", "backspace":
		if m.showDetails {
			m.showDetails = false
			return m, nil
		}
	case "o":
		target, ok := selectedSourceTarget(m)
		if !ok {
			m.sourceJumpStatus = statusStyle.Render("No source target available.")
			return m, nil
		}
		return m, jumpToSourceCmd(target)
	}

	var cmd tea.Cmd
	if m.showDetails {
		m.detail, cmd = m.detail.Update(msg)
	} else {
		m.fileList, cmd = m.fileList.Update(msg)
	}
	return m, cmd
}

// selectedFile maps the list selection to an index into the result files.
func selectedFile(m model) (int, bool) {
	if m.result == nil {
		return 0, false
	}
	selected, ok := m.fileList.SelectedItem().(item)
	if !ok || selected.index < 0 || selected.index >= len(m.result.Files) {
		return 0, false
	}
	return selected.index, true
}

type sourceTarget struct {
	file string
	line int
}

// selectedSourceTarget opens the selected file at its first unreachable
// procedure, else at its deepest nesting, else at the top.
func selectedSourceTarget(m model) (sourceTarget, bool) {
	idx, ok := selectedFile(m)
	if !ok {
		return sourceTarget{}, false
	}
	f := m.result.Files[idx]
	return sourceTarget{file: f.Path, line: hotLine(f)}, f.Path != ""
}

func hotLine(f scoring.FileScore) int {
	for _, p := range f.Procedures {
		if p.Status == scoring.StatusUnreachable {
			return p.Line
		}
	}
	if f.MaxNestingLine > 0 {
		return f.MaxNestingLine
	}
	return 1
}

func jumpToSourceCmd(target sourceTarget) tea.Cmd {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	args := []string{target.file}
	if strings.Contains(editor, "vim") || strings.Contains(editor, "nvim") || strings.HasSuffix(editor, "/vi") || editor == "vi" {
		args = []string{fmt.Sprintf("+%d", target.line), target.file}
	}
	cmd := exec.Command(editor, args...)
	label := fmt.Sprintf("%s:%d", target.file, target.line)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return sourceJumpResultMsg{target: label, err: err}
	})
}
