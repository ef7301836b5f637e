package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/onlineboutique/checkout/internal/checkout"
	"github.com/onlineboutique/checkout/internal/money"
)

// PaymentClient talks to the payment service.
type PaymentClient struct {
	base
}

// NewPaymentClient builds a payment adapter for the service at url.
// httpClient may be nil.
func NewPaymentClient(url string, httpClient *http.Client) *PaymentClient {
	return &PaymentClient{base: newBase(url, httpClient)}
}

var _ checkout.PaymentService = (*PaymentClient)(nil)

type chargeRequest struct {
	Amount     money.Money         `json:"amount"`
	CreditCard checkout.CreditCard `json:"credit_card"`
}

type chargeResponse struct {
	TransactionID string `json:"transaction_id"`
}

type refundRequest struct {
	TransactionID string `json:"transaction_id"`
}

func (c *PaymentClient) Charge(ctx context.Context, amount money.Money, card checkout.CreditCard) (string, error) {
	var resp chargeResponse
	err := c.postJSON(ctx, "/api/v1/payment/charge", chargeRequest{Amount: amount, CreditCard: card}, &resp)
	if err != nil {
		return "", fmt.Errorf("payment service: %w", mapPaymentError(err))
	}
	return resp.TransactionID, nil
}

func (c *PaymentClient) Refund(ctx context.Context, transactionID string) error {
	err := c.postJSON(ctx, "/api/v1/payment/refund", refundRequest{TransactionID: transactionID}, nil)
	if err != nil {
		return fmt.Errorf("payment service: %w", mapPaymentError(err))
	}
	return nil
}

// mapPaymentError distinguishes a declined card from an unreachable or
// broken payment service. 4xx means the charge was rejected; anything
// else means we cannot know and must treat the service as unavailable.
func mapPaymentError(err error) error {
	var herr *httpError
	if errors.As(err, &herr) && herr.status >= 400 && herr.status < 500 {
		return fmt.Errorf("%s: %w", herr.body, checkout.ErrPaymentDeclined)
	}
	return fmt.Errorf("%w: %w", err, checkout.ErrPaymentUnavailable)
}
