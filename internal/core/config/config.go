package config

import (
	"runtime"
	"time"

	"rapidscore/internal/engine/scoring"
)

type Config struct {
	Version       int             `toml:"version"`
	Paths         Paths           `toml:"paths"`
	Analysis      Analysis        `toml:"analysis"`
	Exclude       Exclude         `toml:"exclude"`
	Lexicon       Lexicon         `toml:"lexicon"`
	Scoring       scoring.Weights `toml:"scoring"`
	History       History         `toml:"history"`
	Watch         Watch           `toml:"watch"`
	Observability Observability   `toml:"observability"`
	Output        Output          `toml:"output"`
}

type Paths struct {
	StateDir    string `toml:"state_dir"`
	DatabaseDir string `toml:"database_dir"`
}

type Analysis struct {
	// ExcludeNoStepIn skips modules flagged NOSTEPIN.
	ExcludeNoStepIn bool `toml:"exclude_nostepin"`
	// DynamicDispatch is "all" or "first".
	DynamicDispatch string   `toml:"dynamic_dispatch"`
	Extensions      []string `toml:"extensions"`
	// Workers bounds first-pass parallelism; 0 means one per CPU.
	Workers int `toml:"workers"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Lexicon struct {
	Backend string   `toml:"backend"` // wordlist or sqlite
	Path    string   `toml:"path"`
	Allow   []string `toml:"allow"` // extra tokens always accepted
}

type History struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Watch struct {
	Debounce     time.Duration `toml:"debounce"`
	MaxPerSecond float64       `toml:"max_per_second"`
	Burst        int           `toml:"burst"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Output struct {
	TSV      string `toml:"tsv"`
	Markdown string `toml:"markdown"`
	Mermaid  string `toml:"mermaid"`
	JSON     string `toml:"json"`
	YAML     string `toml:"yaml"`
	SARIF    string `toml:"sarif"`
}

const (
	BackendWordList = "wordlist"
	BackendSQLite   = "sqlite"

	DefaultWordList = "/usr/share/dict/words"
	DefaultFileName = "rapidscore.toml"
)

// RapidExtensions are the file suffixes analyzed by default.
var RapidExtensions = []string{".mod", ".prg", ".sys", ".cfg"}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Version: 1,
		Analysis: Analysis{
			ExcludeNoStepIn: true,
			DynamicDispatch: "all",
			Extensions:      append([]string(nil), RapidExtensions...),
		},
		Lexicon: Lexicon{Backend: BackendWordList, Path: DefaultWordList},
		Scoring: scoring.DefaultWeights(),
		Watch: Watch{
			Debounce:     500 * time.Millisecond,
			MaxPerSecond: 0.5,
			Burst:        1,
		},
	}
	applyDefaults(cfg)
	return cfg
}

// WorkerCount resolves Analysis.Workers.
func (a Analysis) WorkerCount() int {
	if a.Workers > 0 {
		return a.Workers
	}
	return runtime.NumCPU()
}
