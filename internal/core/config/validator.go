package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"rapidscore/internal/engine/graph"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if _, err := graph.ParseDispatchMode(cfg.Analysis.DynamicDispatch); err != nil {
		return fmt.Errorf("analysis.dynamic_dispatch: %w", err)
	}
	if len(cfg.Analysis.Extensions) == 0 {
		return fmt.Errorf("analysis.extensions must not be empty")
	}
	for i, ext := range cfg.Analysis.Extensions {
		if len(ext) < 2 || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext[1:], `./\`) {
			return fmt.Errorf("analysis.extensions[%d] %q is not a file extension", i, ext)
		}
	}
	if cfg.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must be >= 0, got %d", cfg.Analysis.Workers)
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.dirs[%d] %q: %w", i, pattern, err)
		}
	}
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude.files[%d] %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateLexicon(cfg *Config) error {
	switch cfg.Lexicon.Backend {
	case BackendWordList:
		if cfg.Lexicon.Path == "" {
			return fmt.Errorf("lexicon.path must not be empty for the wordlist backend")
		}
	case BackendSQLite:
	default:
		return fmt.Errorf("lexicon.backend must be one of: %s, %s", BackendWordList, BackendSQLite)
	}
	for i, token := range cfg.Lexicon.Allow {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("lexicon.allow[%d] must not be empty", i)
		}
	}
	return nil
}

func validateScoring(cfg *Config) error {
	w := cfg.Scoring
	values := map[string]float64{
		"complexity_factor":   w.ComplexityFactor,
		"complexity_cap":      w.ComplexityCap,
		"nesting_factor":      w.NestingFactor,
		"nesting_cap":         w.NestingCap,
		"call_depth_factor":   w.CallDepthFactor,
		"call_depth_cap":      w.CallDepthCap,
		"proc_count_factor":   w.ProcCountFactor,
		"proc_count_cap":      w.ProcCountCap,
		"proc_size_factor":    w.ProcSizeFactor,
		"file_size_factor":    w.FileSizeFactor,
		"file_size_cap":       w.FileSizeCap,
		"unused_factor":       w.UnusedFactor,
		"unused_cap":          w.UnusedCap,
		"bad_word_factor":     w.BadWordFactor,
		"bad_word_cap":        w.BadWordCap,
		"comment_base":        w.CommentBase,
		"comment_factor":      w.CommentFactor,
		"project_cap_margin":  w.ProjectCapMargin,
		"proc_size_min_lines": w.ProcSizeMinLines,
	}
	for key, v := range values {
		if v < 0 {
			return fmt.Errorf("scoring.%s must be >= 0, got %v", key, v)
		}
	}
	if w.ProcSizeRatio < 0 || w.ProcSizeRatio > 1 {
		return fmt.Errorf("scoring.proc_size_ratio must be within [0,1], got %v", w.ProcSizeRatio)
	}
	if w.ProjectWorstCount < 1 {
		return fmt.Errorf("scoring.project_worst_count must be >= 1, got %d", w.ProjectWorstCount)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be >= 0")
	}
	if cfg.Watch.MaxPerSecond < 0 {
		return fmt.Errorf("watch.max_per_second must be >= 0")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	seen := make(map[string]string)
	outputs := []struct {
		key  string
		path string
	}{
		{"output.tsv", cfg.Output.TSV},
		{"output.markdown", cfg.Output.Markdown},
		{"output.mermaid", cfg.Output.Mermaid},
		{"output.json", cfg.Output.JSON},
		{"output.yaml", cfg.Output.YAML},
		{"output.sarif", cfg.Output.SARIF},
	}
	for _, out := range outputs {
		p := strings.TrimSpace(out.path)
		if p == "" {
			continue
		}
		clean := filepath.Clean(p)
		if other, ok := seen[clean]; ok {
			return fmt.Errorf("%s and %s both write %q", other, out.key, p)
		}
		seen[clean] = out.key
	}
	return nil
}

// Validate runs every check and returns all failures instead of stopping at
// the first one.
func Validate(cfg *Config) []error {
	var errs []error
	checks := []func(*Config) error{
		validateVersion,
		validateAnalysis,
		validateExclude,
		validateLexicon,
		validateScoring,
		validateWatch,
		validateOutput,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}

	errs = append(errs, validatePaths(cfg)...)
	return errs
}

func validatePaths(cfg *Config) []error {
	var errs []error

	if cfg.Lexicon.Backend == BackendWordList && cfg.Lexicon.Path != "" {
		stat, err := os.Stat(cfg.Lexicon.Path)
		if os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("lexicon.path %q does not exist", cfg.Lexicon.Path))
		} else if err == nil && stat.IsDir() {
			errs = append(errs, fmt.Errorf("lexicon.path %q is a directory", cfg.Lexicon.Path))
		}
	}
	return errs
}
