package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	coreapp "rapidscore/internal/core/app"
	"rapidscore/internal/core/config"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
	"rapidscore/internal/shared/observability"
	"rapidscore/internal/shared/util"
	"rapidscore/internal/ui/report"
)

// session is the state every analyzing command shares: logging, the
// effective configuration and the analysis service for one folder.
type session struct {
	cfg     *config.Config
	cfgPath string
	root    string
	app     *coreapp.App
	service ports.AnalysisService

	closeLogs func()
}

func (s *session) Close() {
	if s.app != nil {
		if err := s.app.Close(); err != nil {
			slog.Warn("failed to close analysis resources", "error", err)
		}
	}
	if s.closeLogs != nil {
		s.closeLogs()
	}
}

// openSession configures logging, loads the configuration, applies flag
// overrides and tweak, resolves the folder and builds the analysis service.
func openSession(cmd *cobra.Command, std streams, opts cliOptions, args []string, factory analysisFactory, tweak func(*config.Config), uiMode bool) (*session, error) {
	s := &session{closeLogs: configureLogging(uiMode, opts.verbose, std.err)}

	cwd, err := os.Getwd()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("detect working directory: %w", err)
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		s.Close()
		return nil, &exitError{code: 2, err: fmt.Errorf("load config: %w", err)}
	}
	applyFlagOverrides(cmd, opts, cfg)
	if tweak != nil {
		tweak(cfg)
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		s.Close()
		return nil, &exitError{code: 2, err: stderrors.Join(errs...)}
	}
	s.cfg, s.cfgPath = cfg, cfgPath

	folder, err := resolveFolder(args, std)
	if err != nil {
		s.Close()
		return nil, err
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.root = abs

	app, err := initializeAnalysis(cfg, factory)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("initialize analysis: %w", err)
	}
	s.app = app
	s.service = app.AnalysisService()
	return s, nil
}

func runAnalyze(cmd *cobra.Command, std streams, opts cliOptions, args []string, factory analysisFactory) error {
	if !validFormat(opts.format) {
		return &exitError{code: 2, err: fmt.Errorf("unknown format %q (want one of %s)", opts.format, strings.Join(report.Formats, ", "))}
	}
	tweak := analyzeOverrides(opts)
	s, err := openSession(cmd, std, opts, args, factory, tweak, opts.ui)
	if err != nil {
		return err
	}
	defer s.Close()
	if opts.ui && opts.format != report.FormatText {
		slog.Warn("--format is ignored in UI mode")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, s.cfg.Observability.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	if addr := s.cfg.Observability.MetricsAddr; addr != "" {
		srv := NewObservabilityServer(addr, coreapp.NewHealthService(s.app))
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = srv.Stop(context.Background()) }()
	}

	if opts.watch && s.cfgPath != "" {
		cw := config.NewWatcher(s.cfgPath, reloadConfig(cmd, opts, tweak, s.app.UpdateConfig))
		if err := cw.Start(ctx); err != nil {
			slog.Warn("config hot reload disabled", "path", s.cfgPath, "error", err)
		} else {
			defer cw.Stop()
		}
	}

	if opts.ui {
		sink := resultSink{history: s.app.HistoryEnabled(), outputs: func() config.Output { return s.app.Config().Output }}
		return runUI(ctx, s.service, s.root, loadTrend(ctx, s), opts.watch, sink)
	}

	emit := func(res *ports.AnalysisResult) error {
		if err := writeResult(std.out, res, opts.format, opts.out); err != nil {
			return err
		}
		return report.WriteOutputs(res, s.app.Config().Output)
	}

	if opts.watch {
		slog.Info("watching for changes", "root", s.root)
		return s.service.Watch(ctx, s.root, func(res *ports.AnalysisResult, err error) {
			if err != nil {
				slog.Error("analysis failed", "error", err)
				return
			}
			if err := emit(res); err != nil {
				slog.Error("failed to write result", "error", err)
			}
		})
	}

	res, err := s.service.Analyze(ctx, s.root)
	if err != nil {
		return err
	}
	if err := emit(res); err != nil {
		return err
	}
	if s.app.HistoryEnabled() {
		snap, err := s.service.CaptureSnapshot(ctx, res)
		if err != nil {
			slog.Warn("failed to record snapshot", "error", err)
		} else {
			slog.Info("snapshot recorded", "run_id", snap.RunID, "score", snap.Score)
		}
	}
	return nil
}

// analyzeOverrides returns the config tweak for the analyze-only flags.
func analyzeOverrides(opts cliOptions) func(*config.Config) {
	return func(cfg *config.Config) {
		if opts.history {
			cfg.History.Enabled = true
		}
		if opts.metricsAddr != "" {
			cfg.Observability.MetricsAddr = opts.metricsAddr
		}
		if opts.otlpEndpoint != "" {
			cfg.Observability.OTLPEndpoint = opts.otlpEndpoint
		}
	}
}

// reloadConfig wraps apply for the config watcher. A reloaded file gets the
// same flag overrides and tweak as the startup config, and is dropped with a
// warning when it fails validation.
func reloadConfig(cmd *cobra.Command, opts cliOptions, tweak func(*config.Config), apply func(*config.Config)) func(*config.Config) {
	return func(cfg *config.Config) {
		applyFlagOverrides(cmd, opts, cfg)
		if tweak != nil {
			tweak(cfg)
		}
		if errs := config.Validate(cfg); len(errs) > 0 {
			slog.Warn("ignoring invalid config reload", "error", stderrors.Join(errs...))
			return
		}
		apply(cfg)
		slog.Info("config reloaded")
	}
}

func validFormat(format string) bool {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, known := range report.Formats {
		if f == known {
			return true
		}
	}
	return f == ""
}

func writeResult(w io.Writer, res *ports.AnalysisResult, format, outPath string) error {
	data, err := report.Render(res, format)
	if err != nil {
		return err
	}
	if strings.TrimSpace(outPath) != "" {
		if err := util.WriteFileWithDirs(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", outPath, err)
		}
		slog.Info("result written", "path", outPath, "format", format)
		return nil
	}
	_, err = w.Write(data)
	return err
}

// loadTrend returns the recorded trend of the session folder, or nil when
// history is off or empty.
func loadTrend(ctx context.Context, s *session) *history.TrendReport {
	if !s.app.HistoryEnabled() {
		return nil
	}
	trend, err := s.service.Trend(ctx, ports.HistoryTrendRequest{ProjectKey: s.root})
	if err != nil {
		slog.Debug("no trend available", "error", err)
		return nil
	}
	return &trend
}

// loadConfig reads path, or the discovered default file when path is empty.
// Without any file the built-in defaults apply. Environment overrides are
// applied last.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if strings.TrimSpace(path) == "" {
		path = config.FindConfigFile(cwd)
	}
	if path == "" {
		cfg := config.DefaultConfig()
		config.ApplyEnvOverrides(cfg)
		return cfg, "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	config.ApplyEnvOverrides(cfg)
	slog.Debug("config loaded", "path", path)
	return cfg, path, nil
}

// applyFlagOverrides copies explicitly set analysis flags over cfg.
func applyFlagOverrides(cmd *cobra.Command, opts cliOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("include-nostepin") {
		cfg.Analysis.ExcludeNoStepIn = !opts.includeNoStepIn
	}
	if flags.Changed("first-variant-only") {
		if opts.firstVariantOnly {
			cfg.Analysis.DynamicDispatch = "first"
		} else {
			cfg.Analysis.DynamicDispatch = "all"
		}
	}
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}

func parseHistoryWindow(value string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return coreapp.DefaultTrendWindow, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("--window must be a Go duration (example: 24h), got %q", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("--window must be > 0, got %q", value)
	}
	return d, nil
}

// configureLogging installs the default slog handler. In UI mode logs go to
// a file so they do not corrupt the terminal.
func configureLogging(uiMode, verbose bool, fallback io.Writer) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := fallback
	closeFn := func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(fallback, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(fallback, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(fallback, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "rapidscore", "rapidscore.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "rapidscore", "rapidscore.log")
	}

	return "rapidscore.log"
}
