// Package metrics exports Prometheus metrics for insights runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"DailyInsights/internal/domain"
	"DailyInsights/internal/ports"
)

const namespace = "daily_insights"

// Recorder holds the run metrics.
type Recorder struct {
	Runs        *prometheus.CounterVec
	Documents   *prometheus.CounterVec
	RunDuration prometheus.Histogram
	LastSuccess prometheus.Gauge
}

var _ ports.RunRecorder = (*Recorder)(nil)

// NewRecorder registers all metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Batch runs by outcome.",
		}, []string{"outcome"}),
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Scraped documents by processing result.",
		}, []string{"result"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a batch run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		LastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
}

// ObserveRun records the counters of one finished run.
func (r *Recorder) ObserveRun(s domain.RunSummary, duration time.Duration) {
	r.RunDuration.Observe(duration.Seconds())

	if !s.Success {
		r.Runs.WithLabelValues("failure").Inc()
		return
	}

	r.Runs.WithLabelValues("success").Inc()
	r.LastSuccess.Set(float64(s.FinishedAt.Unix()))

	assigned := s.Saved - s.Unassigned
	r.Documents.WithLabelValues("assigned").Add(float64(assigned))
	r.Documents.WithLabelValues("unassigned").Add(float64(s.Unassigned))
	r.Documents.WithLabelValues("duplicate").Add(float64(s.Duplicates))
	r.Documents.WithLabelValues("error").Add(float64(len(s.Errors)))
}
