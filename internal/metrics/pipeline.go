package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "brandgen",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Generation pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage", "status"},
	)

	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brandgen",
			Name:      "pipeline_runs_total",
			Help:      "Total pipeline executions",
		},
		[]string{"status"}, // "ok" / "error"
	)

	PipelineVariantsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brandgen",
			Name:      "pipeline_variants_total",
			Help:      "Generated variants by outcome",
		},
		[]string{"outcome"}, // "scored" / "failed"
	)

	RetrievalMethodTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brandgen",
			Name:      "retrieval_method_total",
			Help:      "Retrieval contexts by method",
		},
		[]string{"method"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineVariantsTotal)
	prometheus.MustRegister(RetrievalMethodTotal)
	pipelineMetricsRegistered = true
}
