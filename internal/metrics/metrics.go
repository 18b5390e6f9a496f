package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels uploads that produced a dashboard.
	OutcomeSuccess = "success"
	// OutcomeError labels uploads rejected as unreadable or malformed.
	OutcomeError = "error"
)

var (
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "acompanhamento_kpi",
			Name:      "uploads_total",
			Help:      "Total number of uploaded spreadsheets processed, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	pipelineDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "acompanhamento_kpi",
			Name:      "pipeline_seconds",
			Help:      "Time spent normalizing a table and deriving its KPIs.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	rowsPerUpload = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "acompanhamento_kpi",
			Name:      "rows_per_upload",
			Help:      "Number of requests in each normalized table.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)
)

// Register attaches the collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		uploadsTotal,
		pipelineDurationSeconds,
		rowsPerUpload,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveUpload records the outcome of one upload and, on success, its
// pipeline duration and row count.
func ObserveUpload(duration time.Duration, rows int, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	uploadsTotal.WithLabelValues(label).Inc()
	if label == OutcomeError {
		return
	}
	if duration < 0 {
		duration = 0
	}
	pipelineDurationSeconds.Observe(duration.Seconds())
	rowsPerUpload.Observe(float64(rows))
}
