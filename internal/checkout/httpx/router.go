package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/onlineboutique/checkout/internal/pkg/metrics"
)

// NewRouter mounts the checkout API and the metrics endpoint.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/v1/checkout/orders", handler.PlaceOrder)
	r.Get("/api/v1/checkout/orders/{id}", handler.GetOrderStatus)
	r.Get("/api/v1/currencies", handler.GetCurrencies)

	r.Handle("/metrics", metrics.Handler())
	return r
}
