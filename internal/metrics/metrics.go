package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "studio"

var (
	once sync.Once

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_requests_total",
			Help:      "Outbound backend requests by method, path and outcome.",
		},
		[]string{"method", "path", "outcome"},
	)

	gatewayDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_request_duration_seconds",
			Help:      "Outbound backend request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	catalogFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fallback_total",
			Help:      "Catalog collections resolved to built-in sample data.",
		},
		[]string{"collection"},
	)

	flowStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flow_status_total",
			Help:      "Status transitions of booking and admin flows.",
		},
		[]string{"flow", "state"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(gatewayRequests, gatewayDuration, catalogFallbacks, flowStatus)
	})
}

// ObserveRequest records one gateway call. path must not carry a query string.
func ObserveRequest(method, path, outcome string, took time.Duration) {
	gatewayRequests.WithLabelValues(method, path, outcome).Inc()
	gatewayDuration.WithLabelValues(method, path).Observe(took.Seconds())
}

// IncCatalogFallback counts a collection that fell back to sample data.
func IncCatalogFallback(collection string) {
	catalogFallbacks.WithLabelValues(collection).Inc()
}

// IncFlowStatus counts a flow entering a state.
func IncFlowStatus(flow, state string) {
	flowStatus.WithLabelValues(flow, state).Inc()
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
