package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	BaseDir     string
	StateDir    string
	DatabaseDir string
	HistoryDB   string
	LexiconPath string
}

// ResolvePaths turns the relative paths of cfg into absolute ones below
// base (usually the working directory). The sqlite lexicon defaults to
// lexicon.db in the database directory.
func ResolvePaths(cfg *Config, base string) (ResolvedPaths, error) {
	if strings.TrimSpace(base) == "" {
		return ResolvedPaths{}, fmt.Errorf("base directory must not be empty")
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return ResolvedPaths{}, err
	}

	stateDir := ResolveRelative(abs, cfg.Paths.StateDir)
	databaseDir := ResolveRelative(abs, cfg.Paths.DatabaseDir)

	lexiconPath := strings.TrimSpace(cfg.Lexicon.Path)
	switch {
	case lexiconPath == "" && cfg.Lexicon.Backend == BackendSQLite:
		lexiconPath = filepath.Join(databaseDir, "lexicon.db")
	case lexiconPath != "":
		lexiconPath = ResolveRelative(abs, lexiconPath)
	}

	return ResolvedPaths{
		BaseDir:     abs,
		StateDir:    stateDir,
		DatabaseDir: databaseDir,
		HistoryDB:   ResolveRelative(databaseDir, cfg.History.Path),
		LexiconPath: lexiconPath,
	}, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}
