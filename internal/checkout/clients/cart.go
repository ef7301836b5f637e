package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/onlineboutique/checkout/internal/checkout"
)

// CartClient talks to the cart service.
type CartClient struct {
	base
}

// NewCartClient builds a cart adapter for the service at url.
// httpClient may be nil.
func NewCartClient(url string, httpClient *http.Client) *CartClient {
	return &CartClient{base: newBase(url, httpClient)}
}

var _ checkout.CartService = (*CartClient)(nil)

func (c *CartClient) GetCart(ctx context.Context, userID string) ([]checkout.CartItem, error) {
	var items []checkout.CartItem
	if err := c.getJSON(ctx, "/api/v1/cart/"+userID, &items); err != nil {
		return nil, fmt.Errorf("cart service: %w", err)
	}
	return items, nil
}

func (c *CartClient) EmptyCart(ctx context.Context, userID string) error {
	if err := c.delete(ctx, "/api/v1/cart/"+userID); err != nil {
		return fmt.Errorf("cart service: %w", err)
	}
	return nil
}
