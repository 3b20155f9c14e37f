package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments the stub server exposes on
// /metrics.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	loginAttempts *prometheus.CounterVec
}

// NewMetrics creates the server metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billed",
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by method and status code.",
	}, []string{"method", "code"})
	registry.MustRegister(requests)

	loginAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "billed",
		Name:      "login_attempts_total",
		Help:      "Login attempts, by outcome.",
	}, []string{"outcome"})
	registry.MustRegister(loginAttempts)

	return &Metrics{
		registry:      registry,
		requests:      requests,
		loginAttempts: loginAttempts,
	}
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
