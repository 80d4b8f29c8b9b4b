// # internal/core/app/analyze.go
package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/errors"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/lexicon"
	"rapidscore/internal/engine/scanner"
	"rapidscore/internal/engine/scoring"
	"rapidscore/internal/shared/observability"
)

// Analyze runs the three passes over every RAPID file below root.
//
// Pass one scans files in parallel and joins before anything reads the
// shared tables. Merging happens in discovery order, so a procedure defined
// twice resolves to the later file. Passes two and three run on the calling
// goroutine.
func (a *App) Analyze(ctx context.Context, root string) (*ports.AnalysisResult, error) {
	start := time.Now()
	cfg := a.Config()

	ctx, span := observability.Tracer.Start(ctx, "app.Analyze", trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	mode, err := graph.ParseDispatchMode(cfg.Analysis.DynamicDispatch)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "invalid dynamic dispatch mode")
	}

	files, err := Discover(root, cfg.Analysis.Extensions, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}
	slog.Debug("files discovered", "root", root, "count", len(files))

	results, skipped, err := a.scanAll(ctx, cfg, files)
	if err != nil {
		return nil, err
	}

	m := mergeResults(results)
	observability.ProceduresTotal.Set(float64(m.registry.Len()))

	callGraph, depths := a.linkProcedures(ctx, m.registry, mode)

	scores := a.scoreFiles(ctx, cfg, m, depths)
	summary := scoring.Summarize(scores, len(m.variables), cfg.Scoring)
	observability.ProjectScore.Set(summary.Score)

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	res := &ports.AnalysisResult{
		Root:      abs,
		Files:     scores,
		Summary:   summary,
		Skipped:   skipped,
		Duration:  time.Since(start),
		Registry:  m.registry,
		CallGraph: callGraph,
		Depths:    depths,
	}

	span.SetAttributes(
		attribute.Int("files", len(scores)),
		attribute.Int("skipped", len(skipped)),
		attribute.Float64("score", summary.Score),
	)
	slog.Info("analysis complete",
		"root", abs,
		"files", len(scores),
		"skipped", len(skipped),
		"procedures", m.registry.Len(),
		"score", summary.Score,
		"duration", res.Duration,
	)
	return res, nil
}

// scanAll is pass one. Results keep the position of their file; a file that
// cannot be read or decoded leaves a nil slot and is reported as skipped.
func (a *App) scanAll(ctx context.Context, cfg *config.Config, files []string) ([]*scanner.Result, []ports.SkippedFile, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.scanAll")
	defer span.End()
	defer observePass("scan", time.Now())

	sc := scanner.New(scanner.Options{
		ExcludeNoStepIn: cfg.Analysis.ExcludeNoStepIn,
		Classifier:      a.classifier,
	})

	results := make([]*scanner.Result, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Analysis.WorkerCount())
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			begin := time.Now()
			res, err := sc.ScanFile(path)
			observability.FileScanDuration.Observe(time.Since(begin).Seconds())
			if err != nil {
				observability.FilesScannedTotal.WithLabelValues("skipped").Inc()
				failures[i] = err
				return nil
			}
			observability.FilesScannedTotal.WithLabelValues("ok").Inc()
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var skipped []ports.SkippedFile
	for i, err := range failures {
		if err == nil {
			continue
		}
		slog.Warn("skipping file", "path", files[i], "error", err)
		skipped = append(skipped, ports.SkippedFile{Path: files[i], Error: err.Error()})
	}
	return results, skipped, nil
}

// merged holds the project-wide tables built from pass one.
type merged struct {
	files     []*scanner.FileMetrics
	registry  *graph.Registry
	uses      map[string]bool
	prefixes  map[string]bool
	variables map[string]bool
}

func mergeResults(results []*scanner.Result) merged {
	m := merged{
		registry:  graph.NewRegistry(),
		uses:      make(map[string]bool),
		prefixes:  make(map[string]bool),
		variables: make(map[string]bool),
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		m.files = append(m.files, res.Metrics)
		for _, p := range res.Procedures {
			if m.registry.Add(p) {
				slog.Debug("procedure redefined, keeping last definition", "procedure", p.FQName, "path", p.File)
			}
		}
		for name := range res.Metrics.Uses {
			m.uses[name] = true
		}
		for prefix := range res.Metrics.DynamicPrefixes {
			m.prefixes[prefix] = true
		}
		for name := range res.Metrics.VariableNames {
			m.variables[name] = true
		}
	}
	return m
}

// linkProcedures is pass two: call edges and call depth from MAIN.
func (a *App) linkProcedures(ctx context.Context, reg *graph.Registry, mode graph.DispatchMode) (graph.CallGraph, graph.DepthMap) {
	_, span := observability.Tracer.Start(ctx, "app.linkProcedures")
	defer span.End()
	defer observePass("callgraph", time.Now())

	g := graph.BuildCallGraph(reg, a.classifier, mode)
	depths := graph.ComputeDepths(reg, g)
	observability.CallEdgesTotal.Set(float64(g.EdgeCount()))

	if len(reg.EntryPoints()) == 0 && reg.Len() > 0 {
		slog.Warn("no MAIN routine found; every procedure is reported unreachable")
	}
	slog.Debug("call graph built", "edges", g.EdgeCount(), "reachable", len(depths), "mode", mode.String())
	return g, depths
}

// scoreFiles is pass three. The dictionary cache lives for this run only.
func (a *App) scoreFiles(ctx context.Context, cfg *config.Config, m merged, depths graph.DepthMap) []scoring.FileScore {
	_, span := observability.Tracer.Start(ctx, "app.scoreFiles")
	defer span.End()
	defer observePass("score", time.Now())

	naming := lexicon.NewNamingScorer(lexicon.NewCache(a.oracle), cfg.Lexicon.Allow...)
	engine := scoring.NewEngine(cfg.Scoring, naming)
	return engine.ScoreAll(scoring.Input{
		Files:           m.files,
		Registry:        m.registry,
		Depths:          depths,
		DynamicPrefixes: m.prefixes,
		Uses:            m.uses,
	})
}

func observePass(pass string, start time.Time) {
	observability.PassDuration.WithLabelValues(pass).Observe(time.Since(start).Seconds())
}
