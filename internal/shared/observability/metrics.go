package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	PassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rapidscore_pass_seconds",
		Help:    "Time spent in each analysis pass (scan, callgraph, score).",
		Buckets: prometheus.DefBuckets,
	}, []string{"pass"})

	FileScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rapidscore_file_scan_seconds",
		Help:    "Time spent scanning a single RAPID file.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScannedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rapidscore_files_scanned_total",
		Help: "Total number of files handled by the first pass, by outcome.",
	}, []string{"outcome"})

	ProceduresTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rapidscore_procedures",
		Help: "Number of procedures in the registry after the last analysis.",
	})

	CallEdgesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rapidscore_call_edges",
		Help: "Number of distinct call edges after the last analysis.",
	})

	ProjectScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rapidscore_project_score",
		Help: "Capped project score of the last analysis (0-100).",
	})

	LexiconLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rapidscore_lexicon_lookups_total",
		Help: "Dictionary lookups, split by cache hit or miss.",
	}, []string{"result"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rapidscore_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	ReanalysisThrottledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rapidscore_reanalysis_throttled_total",
		Help: "Watch-mode change batches that had to wait for the rate limiter.",
	})
)
