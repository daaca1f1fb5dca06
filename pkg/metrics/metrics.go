package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trade_journal"

// Metrics holds the Prometheus collectors used across the service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TradesSavedTotal   *prometheus.CounterVec
	TradesRemovedTotal prometheus.Counter
	AuthEventsTotal    *prometheus.CounterVec

	LogEntriesTotal *prometheus.CounterVec
}

var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// New registers all collectors on reg, falling back to the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "route"},
		),
		TradesSavedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "journal",
				Name:      "trades_saved_total",
				Help:      "Total number of trade saves",
			},
			[]string{"operation"},
		),
		TradesRemovedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "journal",
				Name:      "trades_removed_total",
				Help:      "Total number of trade removals",
			},
		),
		AuthEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "events_total",
				Help:      "Sign-in, sign-up and sign-out events",
			},
			[]string{"kind"},
		),
		LogEntriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "log",
				Name:      "entries_total",
				Help:      "Log entries written, by level",
			},
			[]string{"level"},
		),
	}
}

// RecordSave counts a trade insert or update.
func (m *Metrics) RecordSave(operation string) {
	if m == nil {
		return
	}
	m.TradesSavedTotal.WithLabelValues(operation).Inc()
}

// RecordRemove counts a trade removal.
func (m *Metrics) RecordRemove() {
	if m == nil {
		return
	}
	m.TradesRemovedTotal.Inc()
}

// RecordAuthEvent counts an auth event by kind.
func (m *Metrics) RecordAuthEvent(kind string) {
	if m == nil {
		return
	}
	m.AuthEventsTotal.WithLabelValues(kind).Inc()
}
