// Package metrics exposes the service's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector. Each instance owns its registry so tests stay isolated.
type Metrics struct {
	registry *prometheus.Registry

	Recommendations    *prometheus.CounterVec   // labels: label
	MissingMinutes     prometheus.Histogram     // null closes per request window
	FetchDuration      *prometheus.HistogramVec // labels: interval
	FetchErrors        *prometheus.CounterVec   // labels: interval
	IndicatorFailures  *prometheus.CounterVec   // labels: indicator
	HTTPRequests       *prometheus.CounterVec   // labels: route, status
	HTTPRequestLatency *prometheus.HistogramVec // labels: route
}

// NewMetrics creates and registers all collectors, plus the Go and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drifter_recommendations_total",
			Help: "Recommendations produced, by label",
		}, []string{"label"}),
		MissingMinutes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "drifter_missing_minutes",
			Help:    "Minutes without a candle in each request window",
			Buckets: []float64{0, 1, 2, 5, 10, 30, 60, 180},
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drifter_upstream_fetch_seconds",
			Help:    "Duration of upstream candle fetches",
			Buckets: prometheus.DefBuckets,
		}, []string{"interval"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drifter_upstream_fetch_errors_total",
			Help: "Failed upstream candle fetches",
		}, []string{"interval"}),
		IndicatorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drifter_indicator_failures_total",
			Help: "Indicators replaced by null columns after failing",
		}, []string{"indicator"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "drifter_http_requests_total",
			Help: "HTTP requests served",
		}, []string{"route", "status"}),
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drifter_http_request_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Recommendations,
		m.MissingMinutes,
		m.FetchDuration,
		m.FetchErrors,
		m.IndicatorFailures,
		m.HTTPRequests,
		m.HTTPRequestLatency,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one upstream fetch. Coins are not used as labels to bound cardinality.
func (m *Metrics) ObserveFetch(_, interval string, d time.Duration, err error) {
	m.FetchDuration.WithLabelValues(interval).Observe(d.Seconds())
	if err != nil {
		m.FetchErrors.WithLabelValues(interval).Inc()
	}
}

// ObserveRecommendation records one produced recommendation.
func (m *Metrics) ObserveRecommendation(label string, missingMinutes int) {
	m.Recommendations.WithLabelValues(label).Inc()
	m.MissingMinutes.Observe(float64(missingMinutes))
}

// IndicatorFailed records an indicator replaced by nulls.
func (m *Metrics) IndicatorFailed(name string, _ error) {
	m.IndicatorFailures.WithLabelValues(name).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, status string, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, status).Inc()
	m.HTTPRequestLatency.WithLabelValues(route).Observe(d.Seconds())
}
