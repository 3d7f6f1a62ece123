package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "football_stats"

// Metrics holds the scrape pipeline collectors on a private registry. All
// methods are safe on a nil receiver, which is how disabled metrics are wired.
type Metrics struct {
	registry *prometheus.Registry

	units           *prometheus.CounterVec
	unitRecords     *prometheus.CounterVec
	unitDuration    *prometheus.HistogramVec
	runs            *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	lastRunSuccess  prometheus.Gauge
	lastRunDuration prometheus.Gauge
	fetches         *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ingestion_units_total",
			Help:      "Ingestion units by kind and status.",
		}, []string{"kind", "status"}),
		unitRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ingestion_records_total",
			Help:      "Rows written by successful ingestion units.",
		}, []string{"kind"}),
		unitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "ingestion_unit_duration_seconds",
			Help:      "Ingestion unit latency including fetch pacing.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Full update runs by mode and result.",
		}, []string{"mode", "result"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Full update run latency.",
			Buckets:   prometheus.ExponentialBuckets(60, 2, 10),
		}, []string{"mode"}),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_success",
			Help:      "1 if the last full update succeeded, 0 otherwise.",
		}),
		lastRunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the last full update.",
		}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_fetches_total",
			Help:      "Upstream HTTP attempts by outcome.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "upstream_fetch_duration_seconds",
			Help:      "Upstream HTTP attempt latency, excluding pacing.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.units,
		m.unitRecords,
		m.unitDuration,
		m.runs,
		m.runDuration,
		m.lastRunSuccess,
		m.lastRunDuration,
		m.fetches,
		m.fetchDuration,
	)

	return m
}

func (m *Metrics) ObserveUnit(kind, status string, records int, durationMs int64) {
	if m == nil {
		return
	}
	m.units.WithLabelValues(kind, status).Inc()
	if records > 0 {
		m.unitRecords.WithLabelValues(kind).Add(float64(records))
	}
	m.unitDuration.WithLabelValues(kind).Observe(millisToSeconds(durationMs))
}

func (m *Metrics) ObserveRun(mode string, failed bool, durationMs int64) {
	if m == nil {
		return
	}
	result, success := "success", 1.0
	if failed {
		result, success = "failed", 0
	}
	seconds := millisToSeconds(durationMs)

	m.runs.WithLabelValues(mode, result).Inc()
	m.runDuration.WithLabelValues(mode).Observe(seconds)
	m.lastRunSuccess.Set(success)
	m.lastRunDuration.Set(seconds)
}

func (m *Metrics) ObserveFetch(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	m.fetchDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func millisToSeconds(ms int64) float64 {
	return float64(ms) / 1000
}
