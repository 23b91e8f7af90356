package shttp

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the server's Prometheus instrumentation. A nil
// *Metrics on the Server disables instrumentation entirely.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	openConnections prometheus.Gauge
	parseFailures   prometheus.Counter
}

// NewMetrics registers the server metrics with reg. Pass
// prometheus.DefaultRegisterer to use the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shttp",
			Name:      "requests_total",
			Help:      "Requests served, by method and response status.",
		}, []string{"method", "status"}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shttp",
			Name:      "request_duration_seconds",
			Help:      "Time from parsed request to flushed response.",
			Buckets:   prometheus.DefBuckets,
		}),
		openConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "shttp",
			Name:      "open_connections",
			Help:      "Currently accepted connections.",
		}),
		parseFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shttp",
			Name:      "parse_failures_total",
			Help:      "Requests rejected by the wire parser.",
		}),
	}
}

func (m *Metrics) connOpened() {
	if m != nil {
		m.openConnections.Inc()
	}
}

func (m *Metrics) connClosed() {
	if m != nil {
		m.openConnections.Dec()
	}
}

func (m *Metrics) observe(method Method, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(string(method), strconv.Itoa(status)).Inc()
	m.requestDuration.Observe(d.Seconds())
}

func (m *Metrics) parseFailed() {
	if m != nil {
		m.parseFailures.Inc()
	}
}
