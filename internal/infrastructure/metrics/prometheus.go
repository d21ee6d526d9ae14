package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private Prometheus registry with the service's collectors
type Recorder struct {
	registry      *prometheus.Registry
	chatRequests  *prometheus.CounterVec
	selectionSize prometheus.Gauge
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewRecorder creates a recorder with Go runtime and process collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowadvisor",
			Name:      "chat_requests_total",
			Help:      "Chat and routine requests by outcome.",
		}, []string{"kind", "outcome"}),
		selectionSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "glowadvisor",
			Name:      "selection_size",
			Help:      "Number of products currently selected.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "glowadvisor",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "glowadvisor",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.chatRequests,
		r.selectionSize,
		r.httpRequests,
		r.httpDuration,
	)
	return r
}

// ObserveChat counts one chat or routine request
func (r *Recorder) ObserveChat(kind, outcome string) {
	r.chatRequests.WithLabelValues(kind, outcome).Inc()
}

// SetSelectionSize records the current selection length
func (r *Recorder) SetSelectionSize(n int) {
	r.selectionSize.Set(float64(n))
}

// ObserveHTTP records one served request
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry (used by tests)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
