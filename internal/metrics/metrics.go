package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csfit_evaluations_total",
			Help: "Total number of candidate evaluations by resulting status",
		},
		[]string{"status"},
	)

	EvaluationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "csfit_evaluation_failures_total",
			Help: "Total number of evaluations that ended in Erro, by failure kind",
		},
		[]string{"kind"},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "csfit_evaluation_duration_seconds",
			Help:    "Duration of a single candidate evaluation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	ExtractionFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "csfit_extraction_failures_total",
			Help: "Total number of résumé documents whose text could not be extracted",
		},
	)

	ResumeScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "csfit_resume_score",
			Help:    "Distribution of résumé keyword scores",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)
)
