// Package metrics provides Prometheus metrics for monitoring.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Simulation
	RateTicks         prometheus.Counter
	TrackersStarted   prometheus.Counter
	TrackersCompleted prometheus.Counter
	ActiveTrackers    prometheus.Gauge

	// Wallet actions
	TxSent         prometheus.Counter
	WatchlistSize  prometheus.Gauge
	HoldingsAdded  prometheus.Counter
	StateLoads     *prometheus.CounterVec
	ValidationErrs *prometheus.CounterVec

	// Transport
	HTTPRequests *prometheus.CounterVec
	LiveClients  prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a Metrics instance on its own registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "vaultium"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		RateTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_ticks_total",
			Help:      "Rate drift simulation ticks",
		}),
		TrackersStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trackers_started_total",
			Help:      "Transaction trackers started",
		}),
		TrackersCompleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trackers_completed_total",
			Help:      "Transaction trackers that reached confirmation",
		}),
		ActiveTrackers: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "trackers_active",
			Help:      "Transaction trackers currently running",
		}),
		TxSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_sent_total",
			Help:      "Simulated send transactions queued",
		}),
		WatchlistSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "watchlist_size",
			Help:      "Contracts on the watchlist",
		}),
		HoldingsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holdings_added_total",
			Help:      "Holdings added to the portfolio",
		}),
		StateLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_loads_total",
			Help:      "State snapshot loads by result",
		}, []string{"result"}),
		ValidationErrs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Rejected form submissions by form",
		}, []string{"form"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
		LiveClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_clients",
			Help:      "Connected websocket clients",
		}),
		registry: reg,
	}
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
