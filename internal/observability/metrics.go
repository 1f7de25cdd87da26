package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "drivel_server"

// Provider call outcomes
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics collects HTTP and provider metrics on a private registry
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpRequests    *prometheus.CounterVec
	httpLatency     *prometheus.HistogramVec
	providerLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	latencyBuckets := []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 30}

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   latencyBuckets,
			},
			[]string{"method", "route", "status"},
		),
		providerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "provider_request_duration_seconds",
				Help:      "Duration of upstream provider calls in seconds.",
				Buckets:   latencyBuckets,
			},
			[]string{"provider", "operation", "outcome"},
		),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.providerLatency,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
	return m, nil
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordHTTPRequest counts a finished request and observes its latency
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	statusLabel := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, route, statusLabel).Inc()
	m.httpLatency.WithLabelValues(method, route, statusLabel).Observe(duration.Seconds())
}

// RecordProviderCall observes one upstream call
func (m *Metrics) RecordProviderCall(provider, operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.providerLatency.WithLabelValues(provider, operation, outcome).Observe(duration.Seconds())
}
