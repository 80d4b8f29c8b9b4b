package app

import (
	"context"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if err := ctx.Err(); err != nil {
		status.Status = "down"
		return status
	}

	if s.app.oracle == nil {
		status.Status = "degraded"
		status.Components["oracle"] = "missing"
	} else {
		status.Components["oracle"] = "ok (" + s.app.Config().Lexicon.Backend + ")"
	}

	switch {
	case s.app.history != nil:
		status.Components["history"] = "ok"
	case s.app.Config().History.Enabled:
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	default:
		status.Components["history"] = "disabled"
	}

	return status
}
