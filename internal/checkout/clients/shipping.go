package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/onlineboutique/checkout/internal/checkout"
	"github.com/onlineboutique/checkout/internal/money"
)

// ShippingClient talks to the shipping service.
type ShippingClient struct {
	base
}

// NewShippingClient builds a shipping adapter for the service at url.
// httpClient may be nil.
func NewShippingClient(url string, httpClient *http.Client) *ShippingClient {
	return &ShippingClient{base: newBase(url, httpClient)}
}

var _ checkout.ShippingService = (*ShippingClient)(nil)

type quoteRequest struct {
	Address checkout.Address    `json:"address"`
	Items   []checkout.CartItem `json:"items"`
}

type quoteResponse struct {
	CostUSD money.Money `json:"cost_usd"`
}

func (c *ShippingClient) Quote(ctx context.Context, address checkout.Address, items []checkout.CartItem) (money.Money, error) {
	var resp quoteResponse
	err := c.postJSON(ctx, "/api/v1/shipping/quote", quoteRequest{Address: address, Items: items}, &resp)
	if err != nil {
		return money.Money{}, fmt.Errorf("shipping service: %w: %w", err, checkout.ErrShippingUnavailable)
	}
	return resp.CostUSD, nil
}
