package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "letters_posts_fetched_total",
		Help: "The total number of posts fetched per source",
	}, []string{"source"})

	PostsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "letters_posts_processed_total",
		Help: "The total number of posts processed by the pipeline",
	}, []string{"status"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "letters_llm_request_duration_seconds",
		Help:    "Duration of model-assistance requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	BatchDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "letters_batch_duration_seconds",
		Help:    "Duration in seconds to process an import batch",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})
)

// Pipeline status labels.
const (
	StatusSaved   = "saved"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)
