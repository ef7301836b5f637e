package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout holds the instruments for the order-placement pipeline.
type Checkout struct {
	OrdersPlaced  prometheus.Counter
	OrderFailures *prometheus.CounterVec
	PlaceOrderSec prometheus.Histogram
}

// NewCheckout registers and returns the checkout instruments.
func NewCheckout() *Checkout {
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "boutique",
		Subsystem: "checkout",
		Name:      "orders_placed_total",
		Help:      "Total number of successfully placed orders.",
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boutique",
		Subsystem: "checkout",
		Name:      "order_failures_total",
		Help:      "Failed checkouts by pipeline step.",
	}, []string{"step"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "boutique",
		Subsystem: "checkout",
		Name:      "place_order_duration_seconds",
		Help:      "End-to-end checkout latency in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	prometheus.MustRegister(placed, failures, duration)
	return &Checkout{OrdersPlaced: placed, OrderFailures: failures, PlaceOrderSec: duration}
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
