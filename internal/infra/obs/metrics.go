package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics ignores every observation.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	messages        *prometheus.HistogramVec
	catalogMatches  prometheus.Histogram
	inquiries       *prometheus.CounterVec
	outboxPublished *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vibestays_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibestays_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		messages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vibestays_bus_message_duration_seconds",
			Help:    "Latency of commands and queries dispatched through the buses",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind", "key", "outcome"}),
		catalogMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vibestays_catalog_matches",
			Help:    "Number of listings matched by a catalog search",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
		inquiries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vibestays_inquiries_total",
			Help: "Contact form inquiries accepted",
		}, []string{"scope"}),
		outboxPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vibestays_outbox_events_total",
			Help: "Outbox events handed to the broker",
		}, []string{"event", "outcome"}),
	}
	m.registry.MustRegister(
		m.requests, m.requestDuration, m.messages, m.catalogMatches, m.inquiries, m.outboxPublished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveMessage records bus latency per command or query key.
func (m *Metrics) ObserveMessage(kind, key string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(kind, key, outcome(err)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCatalogMatches(matches int) {
	if m == nil {
		return
	}
	m.catalogMatches.Observe(float64(matches))
}

func (m *Metrics) ObserveInquiry(listingScoped bool) {
	if m == nil {
		return
	}
	scope := "general"
	if listingScoped {
		scope = "listing"
	}
	m.inquiries.WithLabelValues(scope).Inc()
}

func (m *Metrics) ObservePublish(event string, err error) {
	if m == nil {
		return
	}
	m.outboxPublished.WithLabelValues(event, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
