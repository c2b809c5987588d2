// Package metrics exposes Prometheus collectors for ledger events and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"supplytrace/internal/model"
)

const namespace = "supplytrace"

// EventPublisher matches service.EventPublisher.
type EventPublisher interface {
	Publish(model.Event)
}

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	events           *prometheus.CounterVec
	finalizedBatches *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Ledger events published, by event type.",
		}, []string{"event"}),
		finalizedBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_finalized_total",
			Help:      "Product batches that reached a terminal status, by status.",
		}, []string{"status"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.events,
		m.finalizedBatches,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Publisher counts every event before handing it to next.
func (m *Metrics) Publisher(next EventPublisher) EventPublisher {
	return &countingPublisher{m: m, next: next}
}

type countingPublisher struct {
	m    *Metrics
	next EventPublisher
}

func (p *countingPublisher) Publish(e model.Event) {
	p.m.events.WithLabelValues(string(e.Type)).Inc()
	switch e.Type {
	case model.EventProductFullyApproved:
		p.m.finalizedBatches.WithLabelValues(string(model.ProductStatusApproved)).Inc()
	case model.EventProductRejected:
		p.m.finalizedBatches.WithLabelValues(string(model.ProductStatusRejected)).Inc()
	}
	if p.next != nil {
		p.next.Publish(e)
	}
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
