package clients

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector defines the interface for collecting backend call metrics
type MetricsCollector interface {
	RecordRequest(method, endpoint string, status int, duration time.Duration)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) RecordRequest(method, endpoint string, status int, duration time.Duration) {}

// PrometheusMetrics implements MetricsCollector using Prometheus.
// Status 0 is recorded as "transport_error".
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tplauction",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Requests issued to the auction backend.",
		}, []string{"method", "endpoint", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tplauction",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of auction backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.latency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordRequest(method, endpoint string, status int, duration time.Duration) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, endpoint, label).Inc()
	m.latency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
