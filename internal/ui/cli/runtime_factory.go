package cli

import (
	"fmt"

	coreapp "rapidscore/internal/core/app"
	"rapidscore/internal/core/config"
)

type analysisFactory interface {
	New(cfg *config.Config) (*coreapp.App, error)
}

type coreAnalysisFactory struct{}

func (coreAnalysisFactory) New(cfg *config.Config) (*coreapp.App, error) {
	return coreapp.New(cfg)
}

func initializeAnalysis(cfg *config.Config, factory analysisFactory) (*coreapp.App, error) {
	if factory == nil {
		return nil, fmt.Errorf("analysis factory is required")
	}
	return factory.New(cfg)
}
