// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Tracker metrics
	TicksTotal      prometheus.Counter
	TokensGenerated *prometheus.CounterVec
	TokensEvicted   prometheus.Counter
	StoreSize       prometheus.Gauge
	Running         prometheus.Gauge
	TickDelay       prometheus.Histogram
	FilterChanges   *prometheus.CounterVec

	// Feed metrics
	FeedClients        prometheus.Gauge
	FeedMessagesSent   prometheus.Counter
	FeedClientsDropped *prometheus.CounterVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_tracker"
	}

	return &Metrics{
		// Tracker metrics
		TicksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "ticks_total",
			Help:      "Total number of generation-and-merge cycles",
		}),
		TokensGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "tokens_generated_total",
			Help:      "Total number of tokens generated by origin",
		}, []string{"origin"}),
		TokensEvicted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "tokens_evicted_total",
			Help:      "Total number of tokens dropped from the tail of the rolling list",
		}),
		StoreSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "store_size",
			Help:      "Current number of tokens held",
		}),
		Running: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "running",
			Help:      "1 when the tick scheduler is live, 0 when paused",
		}),
		TickDelay: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "tick_delay_seconds",
			Help:      "Randomised delay scheduled before the next tick",
			Buckets:   []float64{1, 2, 3, 4, 4.5, 5, 5.5, 6, 6.5, 7, 10},
		}),
		FilterChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "filter_changes_total",
			Help:      "Total number of filter selections by filter",
		}, []string{"filter"}),

		// Feed metrics
		FeedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "clients",
			Help:      "Number of connected WebSocket clients",
		}),
		FeedMessagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "messages_sent_total",
			Help:      "Total number of snapshots written to clients",
		}),
		FeedClientsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "clients_dropped_total",
			Help:      "Total number of clients disconnected by reason",
		}, []string{"reason"}),

		// HTTP metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests by route and status",
		}, []string{"route", "status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTick records one tick and the resulting store state.
func RecordTick(evicted, storeSize int) {
	DefaultMetrics.TicksTotal.Inc()
	DefaultMetrics.TokensGenerated.WithLabelValues("tick").Inc()
	DefaultMetrics.TokensEvicted.Add(float64(evicted))
	DefaultMetrics.StoreSize.Set(float64(storeSize))
}

// RecordSeed records seeded tokens.
func RecordSeed(seeded, evicted, storeSize int) {
	DefaultMetrics.TokensGenerated.WithLabelValues("seed").Add(float64(seeded))
	DefaultMetrics.TokensEvicted.Add(float64(evicted))
	DefaultMetrics.StoreSize.Set(float64(storeSize))
}

// RecordRunning updates the scheduler state gauge.
func RecordRunning(running bool) {
	if running {
		DefaultMetrics.Running.Set(1)
		return
	}
	DefaultMetrics.Running.Set(0)
}

// RecordTickDelay records the delay drawn for the next tick.
func RecordTickDelay(seconds float64) {
	DefaultMetrics.TickDelay.Observe(seconds)
}

// RecordFilterChange records a filter selection.
func RecordFilterChange(filter string) {
	DefaultMetrics.FilterChanges.WithLabelValues(filter).Inc()
}

// UpdateFeedClients sets the connected client gauge.
func UpdateFeedClients(n int) {
	DefaultMetrics.FeedClients.Set(float64(n))
}

// RecordFeedMessage increments the snapshots sent counter.
func RecordFeedMessage() {
	DefaultMetrics.FeedMessagesSent.Inc()
}

// RecordFeedDrop records a client disconnect.
func RecordFeedDrop(reason string) {
	DefaultMetrics.FeedClientsDropped.WithLabelValues(reason).Inc()
}

// RecordHTTPRequest records an API request.
func RecordHTTPRequest(route, status string) {
	DefaultMetrics.HTTPRequests.WithLabelValues(route, status).Inc()
}
