package app

import (
	"context"
	"log/slog"

	"rapidscore/internal/core/ports"
	"rapidscore/internal/core/watcher"
	"rapidscore/internal/shared/observability"
	"rapidscore/internal/shared/util"
)

// Watch analyzes root once and again after every debounced batch of file
// changes, paced by the watch rate limit. Each run re-analyzes the whole
// folder. onResult receives every outcome; snapshots are captured when
// history is enabled. Watch returns when ctx is done.
func (a *App) Watch(ctx context.Context, root string, onResult func(*ports.AnalysisResult, error)) error {
	cfg := a.Config()

	run := func() {
		res, err := a.Analyze(ctx, root)
		if err == nil && a.history != nil {
			if _, herr := a.CaptureSnapshot(ctx, res); herr != nil {
				slog.Warn("failed to capture snapshot", "error", herr)
			}
		}
		if onResult != nil {
			onResult(res, err)
		}
	}
	run()

	// One pending batch is enough: the next run sees every change anyway.
	changes := make(chan []string, 1)
	w, err := watcher.NewWatcher(
		cfg.Watch.Debounce,
		cfg.Analysis.Extensions,
		cfg.Exclude.Dirs,
		cfg.Exclude.Files,
		func(paths []string) {
			select {
			case changes <- paths:
			default:
			}
		},
	)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Watch([]string{root}); err != nil {
		return err
	}

	limiter := util.NewLimiter(cfg.Watch.MaxPerSecond, cfg.Watch.Burst)
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			slog.Info("change detected", "files", len(paths))
			waited, err := limiter.Wait(ctx)
			if err != nil {
				return nil
			}
			if waited {
				observability.ReanalysisThrottledTotal.Inc()
			}
			run()
		}
	}
}
