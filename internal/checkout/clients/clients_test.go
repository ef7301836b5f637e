package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onlineboutique/checkout/internal/checkout"
	"github.com/onlineboutique/checkout/internal/money"
)

// memoryCache is an in-memory cache.Cache for tests.
type memoryCache struct {
	data map[string]string
	sets int
	gets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (m *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.sets++
	m.data[key] = value.(string)
	return nil
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.gets++
	return m.data[key], nil
}

func (m *memoryCache) Key(operation, id string) string {
	return "test:" + operation + ":" + id
}

func TestCartClient(t *testing.T) {
	var emptied bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/cart/user-1":
			_ = json.NewEncoder(w).Encode([]checkout.CartItem{{ProductID: "p1", Quantity: 3}})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/cart/user-1":
			emptied = true
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewCartClient(srv.URL, nil)
	ctx := context.Background()

	items, err := c.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []checkout.CartItem{{ProductID: "p1", Quantity: 3}}, items)

	require.NoError(t, c.EmptyCart(ctx, "user-1"))
	assert.True(t, emptied)
}

func TestCatalogClient(t *testing.T) {
	product := checkout.Product{
		ID:       "OLJCESPC7Z",
		Name:     "Sunglasses",
		PriceUSD: money.New("USD", 19, 990_000_000),
	}
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/products/OLJCESPC7Z" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		hits++
		_ = json.NewEncoder(w).Encode(product)
	}))
	defer srv.Close()

	mem := newMemoryCache()
	c := NewCatalogClient(srv.URL, nil, mem)
	ctx := context.Background()

	got, err := c.GetProduct(ctx, "OLJCESPC7Z")
	require.NoError(t, err)
	assert.Equal(t, product, got)
	assert.Equal(t, 1, hits)

	// Second call is served from the cache.
	got, err = c.GetProduct(ctx, "OLJCESPC7Z")
	require.NoError(t, err)
	assert.Equal(t, product, got)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, mem.sets)

	// Unknown products map to the taxonomy sentinel.
	_, err = c.GetProduct(ctx, "NOPE")
	assert.ErrorIs(t, err, checkout.ErrProductNotFound)
}

func TestCatalogClientWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(checkout.Product{ID: "p1"})
	}))
	defer srv.Close()

	c := NewCatalogClient(srv.URL, nil, nil)
	got, err := c.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
}

func TestPaymentClient(t *testing.T) {
	t.Run("charge", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/payment/charge", r.URL.Path)

			var req chargeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, money.New("USD", 58, 970_000_000), req.Amount)

			_ = json.NewEncoder(w).Encode(chargeResponse{TransactionID: "tx-9"})
		}))
		defer srv.Close()

		c := NewPaymentClient(srv.URL, nil)
		txID, err := c.Charge(context.Background(), money.New("USD", 58, 970_000_000), checkout.CreditCard{})
		require.NoError(t, err)
		assert.Equal(t, "tx-9", txID)
	})

	t.Run("declined", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "card expired", http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		c := NewPaymentClient(srv.URL, nil)
		_, err := c.Charge(context.Background(), money.New("USD", 1, 0), checkout.CreditCard{})
		assert.ErrorIs(t, err, checkout.ErrPaymentDeclined)
	})

	t.Run("unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewPaymentClient(srv.URL, nil)
		_, err := c.Charge(context.Background(), money.New("USD", 1, 0), checkout.CreditCard{})
		assert.ErrorIs(t, err, checkout.ErrPaymentUnavailable)
	})

	t.Run("refund", func(t *testing.T) {
		var refunded string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/payment/refund", r.URL.Path)
			var req refundRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			refunded = req.TransactionID
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewPaymentClient(srv.URL, nil)
		require.NoError(t, c.Refund(context.Background(), "tx-9"))
		assert.Equal(t, "tx-9", refunded)
	})
}

func TestShippingClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req quoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Items, 2)
		_ = json.NewEncoder(w).Encode(quoteResponse{CostUSD: money.New("USD", 8, 990_000_000)})
	}))
	defer srv.Close()

	c := NewShippingClient(srv.URL, nil)
	cost, err := c.Quote(context.Background(), checkout.Address{City: "Mountain View"}, []checkout.CartItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, money.New("USD", 8, 990_000_000), cost)
}

func TestShippingClientUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewShippingClient(srv.URL, nil)
	_, err := c.Quote(context.Background(), checkout.Address{}, nil)
	assert.ErrorIs(t, err, checkout.ErrShippingUnavailable)
}

func TestEmailClient(t *testing.T) {
	var got confirmationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/email/send-confirmation", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewEmailClient(srv.URL, nil)
	order := checkout.OrderResult{
		OrderID:            "ord-1",
		ShippingTrackingID: "trk-1",
		ShippingCost:       money.New("USD", 8, 990_000_000),
		Items:              []checkout.OrderItem{{Item: checkout.CartItem{ProductID: "p1", Quantity: 1}}},
	}
	require.NoError(t, c.SendConfirmation(context.Background(), "someone@example.com", order))
	assert.Equal(t, "ord-1", got.OrderID)
	assert.Equal(t, "someone@example.com", got.Email)

	srvDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srvDown.Close()

	cDown := NewEmailClient(srvDown.URL, nil)
	err := cDown.SendConfirmation(context.Background(), "someone@example.com", order)
	assert.ErrorIs(t, err, checkout.ErrEmailUnavailable)
}
