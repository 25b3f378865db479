package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counts how many calls have been analyzed end to end.
var CallsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "callguard_calls_analyzed_total",
	Help: "Total number of calls analyzed successfully",
})

// Counts final verdicts by label.
var VerdictsByLabel = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "callguard_verdicts_total",
		Help: "Total number of final verdicts emitted, by label",
	},
	[]string{"label"},
)

// Counts transcription stage failures.
var TranscriptionFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "callguard_transcription_failures_total",
	Help: "Total number of failed transcription requests",
})

// Counts voice detection stage failures.
var VoiceDetectionFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "callguard_voice_detection_failures_total",
	Help: "Total number of failed voice classifier requests",
})

// Counts language detection failures on transcripts.
var LanguageDetectionFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "callguard_language_detection_failures_total",
	Help: "Total number of transcripts whose language could not be detected",
})

// Counts score cache hits for previously seen transcripts.
var ScoreCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "callguard_score_cache_hits_total",
	Help: "Total number of transcripts scored from the Redis cache",
})

// Distribution of spam scores across analyzed calls.
var SpamScoreHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "callguard_spam_score",
	Help:    "Spam scores produced by the intent scoring engine",
	Buckets: prometheus.LinearBuckets(0, 0.1, 11),
})

// Stage latency metrics
var (
	TranscriptionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_transcription_latency_seconds",
		Help:    "Time taken by the external speech-to-text service",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // From 100ms to ~100s
	})

	VoiceDetectionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_voice_detection_latency_seconds",
		Help:    "Time taken by the external voice classifier",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	ScoringLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_scoring_latency_seconds",
		Help:    "Time taken to score a transcript for scam intent",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)

// Export metrics
var (
	AnalysesExported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "callguard_analyses_exported_total",
		Help: "Total number of call analyses flushed to the export endpoint",
	})

	ExportFlushes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "callguard_export_flushes_total",
		Help: "Total number of bulk export flushes",
	})

	ExportFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "callguard_export_failures_total",
		Help: "Total number of bulk export requests that failed",
	})
)

var CircuitBreakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "callguard_circuit_breaker_state",
		Help: "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
	},
	[]string{"service"},
)
