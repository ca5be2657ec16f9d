package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector the tracker exports
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
	OperationsTotal        *prometheus.CounterVec
	InventoryItems         prometheus.Gauge
	CircuitBreakerState    *prometheus.GaugeVec
	CircuitBreakerFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_tracker_requests_total",
				Help: "Total number of HTTP requests to the inventory tracker",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_tracker_request_duration_seconds",
				Help:    "Duration of inventory tracker HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		// result is one of ok, failed, noop
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_tracker_operations_total",
				Help: "Inventory controller operations by outcome",
			},
			[]string{"operation", "result"},
		),
		InventoryItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "inventory_tracker_items",
				Help: "Number of items in the last refreshed inventory list",
			},
		),
		CircuitBreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inventory_tracker_circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"circuit_name"},
		),
		CircuitBreakerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_tracker_circuit_breaker_failures_total",
				Help: "Total number of failed calls through the circuit breaker",
			},
			[]string{"circuit_name"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.OperationsTotal,
		m.InventoryItems,
		m.CircuitBreakerState,
		m.CircuitBreakerFailures,
	)
	return m
}
