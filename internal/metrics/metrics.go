// Package metrics exposes Prometheus metrics on an isolated registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	inferenceDuration *prometheus.HistogramVec
	handler           http.Handler
}

// New registers the service metrics, labelled with serviceName.
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, registry)

	m := &Metrics{
		Registry: registry,
		requests: createCounterVec(
			"textsim_http_requests_total",
			"HTTP requests by route and status code.",
			[]string{"route", "status"},
		),
		requestDuration: createHistogramVec(
			"textsim_http_request_duration_seconds",
			"HTTP request latency by route.",
			[]string{"route"},
			prometheus.DefBuckets,
		),
		inferenceDuration: createHistogramVec(
			"textsim_inference_duration_seconds",
			"Embedding and scoring latency by model and outcome.",
			[]string{"model", "outcome"},
			prometheus.ExponentialBuckets(0.005, 2, 12),
		),
		handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	wrapped.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.inferenceDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler { return m.handler }

func (m *Metrics) ObserveRequest(route string, status int, start time.Time) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveInference(model, outcome string, start time.Time) {
	m.inferenceDuration.WithLabelValues(model, outcome).Observe(time.Since(start).Seconds())
}

func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}
