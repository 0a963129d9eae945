package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchDuration *prometheus.HistogramVec
	observations  *prometheus.CounterVec
	sourceErrors  *prometheus.CounterVec
	alertsTotal   *prometheus.CounterVec
	lastAlerts    *prometheus.GaugeVec
	runDuration   prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tokenradar_fetch_duration_seconds",
				Help:    "Duration of source adapter fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		observations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenradar_observations_total",
				Help: "Total raw observations fetched per source",
			},
			[]string{"source"},
		),
		sourceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenradar_source_errors_total",
				Help: "Total failed or timed out source fetches",
			},
			[]string{"source"},
		),
		alertsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenradar_alerts_total",
				Help: "Total alerted tokens per classification",
			},
			[]string{"classification"},
		),
		lastAlerts: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tokenradar_last_run_alerts",
				Help: "Alerted tokens per classification in the last run",
			},
			[]string{"classification"},
		),
		runDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tokenradar_run_duration_seconds",
				Help:    "Duration of full pipeline runs in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordFetch records one successful source fetch.
func (r *Recorder) RecordFetch(source string, seconds float64, observations int) {
	r.fetchDuration.WithLabelValues(source).Observe(seconds)
	r.observations.WithLabelValues(source).Add(float64(observations))
}

// RecordSourceError records a failed or timed out fetch.
func (r *Recorder) RecordSourceError(source string) {
	r.sourceErrors.WithLabelValues(source).Inc()
}

// RecordAlerts records bucket sizes for a completed run.
func (r *Recorder) RecordAlerts(classification string, count int) {
	r.alertsTotal.WithLabelValues(classification).Add(float64(count))
	r.lastAlerts.WithLabelValues(classification).Set(float64(count))
}

// RecordRun records the duration of a full pipeline run.
func (r *Recorder) RecordRun(seconds float64) {
	r.runDuration.Observe(seconds)
}
