// Package metrics registers the Prometheus collectors of the cart service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Label values shared by the cart and event collectors.
const (
	ResultSuccess   = "success"
	ResultRejected  = "rejected"
	ResultError     = "error"
	ResultPublished = "published"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
)

// unmatchedRoute labels requests that hit no route, so scanners cannot
// blow up label cardinality.
const unmatchedRoute = "unmatched"

var httpLabels = []string{"method", "route", "status_code"}

var (
	// HTTPRequestDuration is request latency per route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, httpLabels)

	// HTTPRequestTotal counts requests per route template and status.
	HTTPRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, httpLabels)

	// CartOperationsTotal counts cart store operations by outcome.
	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "operations_total",
		Help:      "Cart operations by operation and result.",
	}, []string{"operation", "result"})

	// CartOperationDuration includes the slot store round trips.
	CartOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "cart",
		Name:      "operation_duration_seconds",
		Help:      "Cart operation latency in seconds, storage included.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2.5, 10),
	}, []string{"operation"})

	// CheckoutTotalAmount observes order grand totals in currency units.
	CheckoutTotalAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "total_amount",
		Help:      "Grand total of placed orders.",
		Buckets:   []float64{500, 1000, 2500, 5000, 7500, 10000, 25000, 50000, 100000},
	})

	// CircuitBreakerState is 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "circuit_breaker",
		Name:      "state",
		Help:      "Circuit breaker state (0 closed, 1 open, 2 half-open).",
	}, []string{"name"})

	// OrderEventsTotal counts order events by publish outcome.
	OrderEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "orders_total",
		Help:      "Order placed events by result (published, failed, dropped).",
	}, []string{"result"})
)

// PrometheusMiddleware observes every request under its route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		labels := prometheus.Labels{
			"method":      c.Request.Method,
			"route":       route,
			"status_code": strconv.Itoa(c.Writer.Status()),
		}
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.With(labels).Inc()
	}
}

// RecordCartOperation records the outcome and latency of a cart operation.
func RecordCartOperation(operation, result string, duration time.Duration) {
	CartOperationsTotal.WithLabelValues(operation, result).Inc()
	CartOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCheckout observes the grand total of a placed order.
func RecordCheckout(total float64) {
	CheckoutTotalAmount.Observe(total)
}

// SetCircuitBreakerState publishes a breaker state as a gauge value.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordOrderEvent counts an order event outcome.
func RecordOrderEvent(result string) {
	OrderEventsTotal.WithLabelValues(result).Inc()
}
