package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// PipelineMetrics tracks per-file processing on a private registry so a
// long-running batch can be watched over the optional metrics endpoint.
type PipelineMetrics struct {
	registry *prometheus.Registry

	filesTotal    *prometheus.CounterVec
	fileDuration  *prometheus.HistogramVec
	filesInFlight prometheus.Gauge
	stageFailures *prometheus.CounterVec
}

func NewPipelineMetrics() *PipelineMetrics {
	registry := prometheus.NewRegistry()

	filesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renamer",
			Subsystem: "pipeline",
			Name:      "files_total",
			Help:      "Total processed files by terminal status.",
		},
		[]string{"status"},
	)
	fileDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "renamer",
			Subsystem: "pipeline",
			Name:      "file_duration_seconds",
			Help:      "Per-file processing duration in seconds by terminal status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"status"},
	)
	filesInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "renamer",
			Subsystem: "pipeline",
			Name:      "files_in_flight",
			Help:      "Number of files currently being processed.",
		},
	)
	stageFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "renamer",
			Subsystem: "pipeline",
			Name:      "stage_failures_total",
			Help:      "Stage-level failures, including ones downgraded to fallbacks.",
		},
		[]string{"stage"},
	)

	registry.MustRegister(filesTotal, fileDuration, filesInFlight, stageFailures)

	return &PipelineMetrics{
		registry:      registry,
		filesTotal:    filesTotal,
		fileDuration:  fileDuration,
		filesInFlight: filesInFlight,
		stageFailures: stageFailures,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartFile() {
	m.filesInFlight.Inc()
}

func (m *PipelineMetrics) FinishFile(status domain.FileStatus, duration time.Duration) {
	m.filesInFlight.Dec()
	m.filesTotal.WithLabelValues(string(status)).Inc()
	m.fileDuration.WithLabelValues(string(status)).Observe(duration.Seconds())
}

func (m *PipelineMetrics) StageFailure(stage domain.Stage) {
	m.stageFailures.WithLabelValues(string(stage)).Inc()
}
