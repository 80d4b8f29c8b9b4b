package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads a TOML file on top of DefaultConfig, so keys the file leaves
// out keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	normalize(cfg)

	if err := validateVersion(cfg); err != nil {
		return nil, err
	}
	if err := validateAnalysis(cfg); err != nil {
		return nil, err
	}
	if err := validateExclude(cfg); err != nil {
		return nil, err
	}
	if err := validateLexicon(cfg); err != nil {
		return nil, err
	}
	if err := validateScoring(cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile looks for rapidscore.toml in dir and in dir/data/config.
// It returns "" when neither exists.
func FindConfigFile(dir string) string {
	candidates := []string{
		filepath.Join(dir, DefaultFileName),
		filepath.Join(dir, "data", "config", DefaultFileName),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}
	if strings.TrimSpace(cfg.Paths.DatabaseDir) == "" {
		cfg.Paths.DatabaseDir = "data/database"
	}

	if strings.TrimSpace(cfg.Analysis.DynamicDispatch) == "" {
		cfg.Analysis.DynamicDispatch = "all"
	}
	if len(cfg.Analysis.Extensions) == 0 {
		cfg.Analysis.Extensions = append([]string(nil), RapidExtensions...)
	}

	if strings.TrimSpace(cfg.Lexicon.Backend) == "" {
		cfg.Lexicon.Backend = BackendWordList
	}
	if strings.TrimSpace(cfg.Lexicon.Path) == "" && cfg.Lexicon.Backend == BackendWordList {
		cfg.Lexicon.Path = DefaultWordList
	}

	if strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "history.db"
	}
	if cfg.History.BusyTimeout <= 0 {
		cfg.History.BusyTimeout = 5 * time.Second
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 1
	}
}

func normalize(cfg *Config) {
	cfg.Analysis.DynamicDispatch = strings.ToLower(strings.TrimSpace(cfg.Analysis.DynamicDispatch))
	for i, ext := range cfg.Analysis.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Analysis.Extensions[i] = ext
	}
	cfg.Lexicon.Backend = strings.ToLower(strings.TrimSpace(cfg.Lexicon.Backend))
	cfg.Lexicon.Path = strings.TrimSpace(cfg.Lexicon.Path)
}
