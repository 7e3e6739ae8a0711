package gateway

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the gateway's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sends    *prometheus.CounterVec
	replies  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "replybridge",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "replybridge",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "replybridge",
			Name:      "provider_operations_total",
			Help:      "Reply and broadcast operations by result.",
		}, []string{"operation", "result"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "replybridge",
			Name:      "replies_selected_total",
			Help:      "Replies chosen by keyword; fallback replies use keyword=\"fallback\".",
		}, []string{"keyword"}),
	}
	reg.MustRegister(
		m.requests, m.duration, m.sends, m.replies,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeRequest(route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.sends.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) observeReply(keyword string) {
	if keyword == "" {
		keyword = "fallback"
	}
	m.replies.WithLabelValues(keyword).Inc()
}
