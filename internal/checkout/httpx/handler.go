package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/onlineboutique/checkout/internal/checkout"
	"github.com/onlineboutique/checkout/internal/checkout/orderlog"
	"github.com/onlineboutique/checkout/internal/currency"
)

// OrderPlacer runs the checkout pipeline. *checkout.Orchestrator
// satisfies it.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req checkout.PlaceOrderRequest) (*checkout.OrderResult, error)
}

// OrderLogReader reads the latest recorded state of an order. The
// SQLite order log repository satisfies it.
type OrderLogReader interface {
	Latest(ctx context.Context, orderID string) (*orderlog.Entry, error)
}

// Handler serves the checkout HTTP API.
type Handler struct {
	orchestrator OrderPlacer
	converter    currency.Service
	orders       OrderLogReader // nil disables the status endpoint
}

// NewHandler wires the handler. orders may be nil.
func NewHandler(o OrderPlacer, converter currency.Service, orders OrderLogReader) *Handler {
	return &Handler{orchestrator: o, converter: converter, orders: orders}
}

// PlaceOrder runs the full checkout pipeline and returns the assembled
// order. The call is synchronous: once a charge is in flight the
// pipeline must finish or compensate, so the handler detaches from the
// client's cancellation and relies on per-step deadlines instead.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), false)
		return
	}
	if msg := validate(req); msg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", msg, false)
		return
	}

	// Detach from the request context so a client disconnect cannot
	// abandon a checkout mid-pipeline, while keeping tracing metadata.
	ctx := context.WithoutCancel(r.Context())
	result, err := h.orchestrator.PlaceOrder(ctx, checkout.PlaceOrderRequest{
		UserID:       req.UserID,
		UserCurrency: req.UserCurrency,
		Email:        req.Email,
		Address:      req.Address,
		CreditCard:   req.CreditCard,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "checkout failed", "user_id", req.UserID, "error", err)
		status, code, charged := mapCheckoutError(err)
		writeError(w, status, code, err.Error(), charged)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetOrderStatus reports the latest order log state for an order.
func (h *Handler) GetOrderStatus(w http.ResponseWriter, r *http.Request) {
	if h.orders == nil {
		writeError(w, http.StatusNotFound, "order_log_disabled", "", false)
		return
	}

	orderID := chi.URLParam(r, "id")
	entry, err := h.orders.Latest(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "order_not_found", err.Error(), false)
		return
	}

	writeJSON(w, http.StatusOK, orderStatusResponse{
		OrderID:   entry.OrderID,
		Status:    string(entry.Status),
		Step:      entry.Step,
		Detail:    entry.Detail,
		UpdatedAt: entry.UpdatedAt.Format(time.RFC3339Nano),
	})
}

// GetCurrencies lists the currency codes checkout can price orders in.
func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	codes, err := h.converter.Currencies(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "currencies_unavailable", err.Error(), false)
		return
	}
	writeJSON(w, http.StatusOK, currenciesResponse{CurrencyCodes: codes})
}

func validate(req placeOrderRequest) string {
	switch {
	case req.UserID == "":
		return "user_id is required"
	case req.UserCurrency == "":
		return "user_currency is required"
	case req.Email == "":
		return "email is required"
	case req.Address == (checkout.Address{}):
		return "address is required"
	case req.CreditCard == (checkout.CreditCard{}):
		return "credit_card is required"
	}
	return ""
}

// mapCheckoutError translates the failure taxonomy to HTTP. The charged
// flag is surfaced so the client can distinguish "nothing happened"
// from "payment captured but order incomplete".
func mapCheckoutError(err error) (status int, code string, charged bool) {
	var cerr *checkout.Error
	if errors.As(err, &cerr) {
		charged = cerr.Charged && !cerr.Refunded
	}

	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest, "empty_cart", charged
	case errors.Is(err, checkout.ErrProductNotFound):
		return http.StatusBadRequest, "product_not_found", charged
	case errors.Is(err, currency.ErrUnsupportedCurrency):
		return http.StatusBadRequest, "unsupported_currency", charged
	case errors.Is(err, checkout.ErrPaymentDeclined):
		return http.StatusPaymentRequired, "payment_declined", charged
	case errors.Is(err, checkout.ErrTimeout):
		return http.StatusGatewayTimeout, "step_timeout", charged
	default:
		return http.StatusBadGateway, "checkout_failed", charged
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string, charged bool) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg, Charged: charged})
}
