package checkout

import (
	"context"

	"github.com/onlineboutique/checkout/internal/money"
)

// CartService owns per-user cart state. The orchestrator never caches
// or mutates cart contents locally.
type CartService interface {
	GetCart(ctx context.Context, userID string) ([]CartItem, error)
	EmptyCart(ctx context.Context, userID string) error
}

// ProductCatalog resolves product details by ID.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (Product, error)
}

// PaymentService charges and refunds orders. Charge returns the
// transaction ID used for a later Refund if the order cannot complete.
type PaymentService interface {
	Charge(ctx context.Context, amount money.Money, card CreditCard) (transactionID string, err error)
	Refund(ctx context.Context, transactionID string) error
}

// ShippingService quotes shipping for a destination and the original,
// unpriced cart items. The quote is in USD.
type ShippingService interface {
	Quote(ctx context.Context, address Address, items []CartItem) (money.Money, error)
}

// EmailService sends the order confirmation.
type EmailService interface {
	SendConfirmation(ctx context.Context, email string, order OrderResult) error
}
