package cli

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
)

// runUI shows the interactive report. In watch mode every re-analysis is
// pushed into the running program. Each successful result is handed to sink.
func runUI(ctx context.Context, service ports.AnalysisService, root string, trend *history.TrendReport, watch bool, sink resultSink) error {
	m := initialModel(ctx, service, root, trend, watch, sink)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		// The watch loop records its own snapshots.
		pushed := resultSink{outputs: sink.outputs}
		go func() {
			err := service.Watch(watchCtx, root, func(res *ports.AnalysisResult, err error) {
				if err == nil {
					pushed.record(watchCtx, service, res)
				}
				p.Send(resultMsg{result: res, err: err})
			})
			if err != nil && watchCtx.Err() == nil {
				slog.Error("watch stopped", "error", err)
				p.Send(resultMsg{err: err})
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
