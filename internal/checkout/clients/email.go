package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/onlineboutique/checkout/internal/checkout"
	"github.com/onlineboutique/checkout/internal/money"
)

// EmailClient talks to the email service.
type EmailClient struct {
	base
}

// NewEmailClient builds an email adapter for the service at url.
// httpClient may be nil.
func NewEmailClient(url string, httpClient *http.Client) *EmailClient {
	return &EmailClient{base: newBase(url, httpClient)}
}

var _ checkout.EmailService = (*EmailClient)(nil)

type confirmationRequest struct {
	Email              string               `json:"email"`
	OrderID            string               `json:"order_id"`
	ShippingTrackingID string               `json:"shipping_tracking_id"`
	ShippingCost       money.Money          `json:"shipping_cost"`
	ShippingAddress    checkout.Address     `json:"shipping_address"`
	Items              []checkout.OrderItem `json:"items"`
}

func (c *EmailClient) SendConfirmation(ctx context.Context, email string, order checkout.OrderResult) error {
	req := confirmationRequest{
		Email:              email,
		OrderID:            order.OrderID,
		ShippingTrackingID: order.ShippingTrackingID,
		ShippingCost:       order.ShippingCost,
		ShippingAddress:    order.ShippingAddress,
		Items:              order.Items,
	}
	if err := c.postJSON(ctx, "/api/v1/email/send-confirmation", req, nil); err != nil {
		return fmt.Errorf("email service: %w: %w", err, checkout.ErrEmailUnavailable)
	}
	return nil
}
