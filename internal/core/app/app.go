// # internal/core/app/app.go
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/errors"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/data/history"
	"rapidscore/internal/engine/scanner"
)

// App runs analyses of RAPID project folders. Every Analyze call is
// independent; the oracle is shared, the memo cache is per run.
type App struct {
	configMu sync.RWMutex
	config   *config.Config

	oracle     ports.WordOracle
	history    ports.HistoryStore
	classifier scanner.Classifier
	closers    []io.Closer
}

// Dependencies lets callers inject the capabilities New would otherwise
// build from configuration.
type Dependencies struct {
	Oracle  ports.WordOracle
	History ports.HistoryStore
	Closers []io.Closer
}

// New builds the word oracle and, if enabled, the history store described by
// cfg. Paths are resolved against the working directory. A failing oracle
// is fatal: no file is scanned without one.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	paths, err := config.ResolvePaths(cfg, wd)
	if err != nil {
		return nil, err
	}

	oracle, closer, err := OpenOracle(cfg.Lexicon.Backend, paths.LexiconPath)
	if err != nil {
		return nil, err
	}
	deps := Dependencies{Oracle: oracle}
	if closer != nil {
		deps.Closers = append(deps.Closers, closer)
	}

	if cfg.History.Enabled {
		store, err := history.Open(paths.HistoryDB, cfg.History.BusyTimeout)
		if err != nil {
			closeAll(deps.Closers)
			return nil, errors.AddContext(err, errors.CtxPath, paths.HistoryDB)
		}
		deps.History = history.NewAdapter(store)
		deps.Closers = append(deps.Closers, store)
	}

	return NewWithDependencies(cfg, deps)
}

func NewWithDependencies(cfg *config.Config, deps Dependencies) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Oracle == nil {
		return nil, errors.New(errors.CodeOracleUnavailable, "word oracle dependency is required")
	}
	return &App{
		config:     cfg,
		oracle:     deps.Oracle,
		history:    deps.History,
		classifier: scanner.NewClassifier(),
		closers:    deps.Closers,
	}, nil
}

// Config returns the configuration the next run will use.
func (a *App) Config() *config.Config {
	a.configMu.RLock()
	defer a.configMu.RUnlock()
	return a.config
}

// UpdateConfig swaps the configuration for subsequent runs. A run already in
// progress keeps the configuration it started with.
func (a *App) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.configMu.Lock()
	a.config = cfg
	a.configMu.Unlock()
	slog.Info("configuration updated")
}

// HistoryEnabled reports whether snapshots can be captured.
func (a *App) HistoryEnabled() bool {
	return a.history != nil
}

func (a *App) Close() error {
	err := closeAll(a.closers)
	a.closers = nil
	return err
}

func closeAll(closers []io.Closer) error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
