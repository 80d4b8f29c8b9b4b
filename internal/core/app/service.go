package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
	"rapidscore/internal/shared/observability"
)

type analysisService struct {
	app *App
}

var _ ports.AnalysisService = (*analysisService)(nil)

func NewAnalysisService(app *App) ports.AnalysisService {
	return &analysisService{app: app}
}

func (a *App) AnalysisService() ports.AnalysisService {
	return NewAnalysisService(a)
}

func (s *analysisService) Analyze(ctx context.Context, root string) (*ports.AnalysisResult, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	return s.app.Analyze(ctx, root)
}

func (s *analysisService) CaptureSnapshot(ctx context.Context, result *ports.AnalysisResult) (history.Snapshot, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysisService.CaptureSnapshot")
	defer span.End()

	if err := s.check(ctx); err != nil {
		return history.Snapshot{}, err
	}
	snap, err := s.app.CaptureSnapshot(ctx, result)
	if err == nil {
		span.SetAttributes(attribute.String("run_id", snap.RunID.String()))
	}
	return snap, err
}

func (s *analysisService) Trend(ctx context.Context, req ports.HistoryTrendRequest) (history.TrendReport, error) {
	ctx, span := observability.Tracer.Start(ctx, "analysisService.Trend",
		trace.WithAttributes(attribute.String("project", req.ProjectKey)))
	defer span.End()

	if err := s.check(ctx); err != nil {
		return history.TrendReport{}, err
	}
	if req.Window == 0 {
		req.Window = DefaultTrendWindow
	}
	return s.app.Trend(ctx, req)
}

func (s *analysisService) Watch(ctx context.Context, root string, onResult func(*ports.AnalysisResult, error)) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.app.Watch(ctx, root, onResult)
}

func (s *analysisService) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	return nil
}
