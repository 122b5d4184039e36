// Package metrics provides Prometheus metrics for the token keeper.
//
// All recording methods are safe to call on a nil *Metrics, so library
// callers that don't care about metrics can leave them unset.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels.
const (
	OpLogin   = "login"
	OpRefresh = "refresh"
	OpReauth  = "reauth"
)

// Result labels.
const (
	ResultOK         = "ok"
	ResultFailed     = "failed"
	ResultInProgress = "in_progress"
	ResultThrottled  = "throttled"
	ResultNoCreds    = "no_credentials"
)

// Metrics holds all Prometheus metrics for the keeper.
type Metrics struct {
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	StoreErrorsTotal  *prometheus.CounterVec
	AccessTokenExpiry prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keeper_operations_total",
				Help: "Token lifecycle operations by kind and result.",
			},
			[]string{"op", "result"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keeper_operation_duration_seconds",
				Help:    "Round trip duration of calls to the auth server.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keeper_store_errors_total",
				Help: "Secure store failures by operation.",
			},
			[]string{"op"},
		),
		AccessTokenExpiry: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "keeper_access_token_expiry_timestamp_seconds",
				Help: "Unix time at which the current access token expires, 0 if unknown.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.OperationsTotal)
	reg.MustRegister(m.OperationDuration)
	reg.MustRegister(m.StoreErrorsTotal)
	reg.MustRegister(m.AccessTokenExpiry)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordOperation increments the operation counter.
func (m *Metrics) RecordOperation(op, result string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(op, result).Inc()
}

// ObserveDuration records the duration of a call to the auth server.
func (m *Metrics) ObserveDuration(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordStoreError increments the store error counter.
func (m *Metrics) RecordStoreError(op string) {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.WithLabelValues(op).Inc()
}

// SetAccessTokenExpiry publishes the access token expiry. The zero time
// resets the gauge.
func (m *Metrics) SetAccessTokenExpiry(exp time.Time) {
	if m == nil {
		return
	}
	if exp.IsZero() {
		m.AccessTokenExpiry.Set(0)
		return
	}
	m.AccessTokenExpiry.Set(float64(exp.Unix()))
}
