package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scoring and extraction Prometheus metrics.
var (
	ScoringEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidex",
			Name:      "scoring_evaluations_total",
			Help:      "Total number of candidate evaluations",
		},
		[]string{"rule_version", "grade"},
	)

	ScoringDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "candidex",
			Name:      "scoring_duration_seconds",
			Help:      "Candidate evaluation duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"rule_version"},
	)

	ScoringRisksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidex",
			Name:      "scoring_risks_total",
			Help:      "Total risk annotations emitted by evaluations",
		},
		[]string{"category", "severity"},
	)

	ExtractionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "candidex",
			Name:      "extraction_requests_total",
			Help:      "Total number of resume extraction requests",
		},
		[]string{"kind", "status"},
	)

	ExtractionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "candidex",
			Name:      "extraction_duration_seconds",
			Help:      "Resume extraction duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)
)

var scoringMetricsRegistered bool

// RegisterScoringMetrics registers Prometheus scoring metrics. Must be called once from main.
func RegisterScoringMetrics() {
	if scoringMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScoringEvaluationsTotal)
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(ScoringRisksTotal)
	prometheus.MustRegister(ExtractionRequestsTotal)
	prometheus.MustRegister(ExtractionDuration)
	scoringMetricsRegistered = true
}
