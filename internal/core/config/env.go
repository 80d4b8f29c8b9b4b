package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: RAPIDSCORE_[SECTION]_[KEY] (e.g., RAPIDSCORE_LEXICON_PATH).
func ApplyEnvOverrides(cfg *Config) {
	// Analysis
	setEnvBool(&cfg.Analysis.ExcludeNoStepIn, "RAPIDSCORE_ANALYSIS_EXCLUDE_NOSTEPIN")
	setEnvString(&cfg.Analysis.DynamicDispatch, "RAPIDSCORE_ANALYSIS_DYNAMIC_DISPATCH")
	setEnvInt(&cfg.Analysis.Workers, "RAPIDSCORE_ANALYSIS_WORKERS")

	// Lexicon
	setEnvString(&cfg.Lexicon.Backend, "RAPIDSCORE_LEXICON_BACKEND")
	setEnvString(&cfg.Lexicon.Path, "RAPIDSCORE_LEXICON_PATH")

	// History
	setEnvBool(&cfg.History.Enabled, "RAPIDSCORE_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "RAPIDSCORE_HISTORY_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "RAPIDSCORE_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxPerSecond, "RAPIDSCORE_WATCH_MAX_PER_SECOND")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "RAPIDSCORE_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "RAPIDSCORE_OBSERVABILITY_OTLP_ENDPOINT")

	normalize(cfg)
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
