// Package checkout implements the order-placement orchestration: it
// drives the cart, catalog, currency, payment, shipping, and email
// collaborators through a fixed sequence and assembles the final order.
package checkout

import "github.com/onlineboutique/checkout/internal/money"

// CartItem is one line of a user's cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

// Product is the catalog view of an item. The list price is always USD.
type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Picture     string      `json:"picture"`
	PriceUSD    money.Money `json:"price_usd"`
	Categories  []string    `json:"categories"`
}

// OrderItem is a cart line priced in the user's requested currency.
// Cost is the per-line total: unit price times quantity.
type OrderItem struct {
	Item CartItem    `json:"item"`
	Cost money.Money `json:"cost"`
}

// Address is the shipping destination.
type Address struct {
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Country       string `json:"country"`
	ZipCode       string `json:"zip_code"`
}

// CreditCard carries the card details forwarded to the payment
// collaborator. Never logged.
type CreditCard struct {
	Number          string `json:"credit_card_number"`
	CVV             int32  `json:"credit_card_cvv"`
	ExpirationYear  int32  `json:"credit_card_expiration_year"`
	ExpirationMonth int32  `json:"credit_card_expiration_month"`
}

// PlaceOrderRequest is the input to PlaceOrder. All fields are
// mandatory; there are no partial orders.
type PlaceOrderRequest struct {
	UserID       string
	UserCurrency string
	Address      Address
	Email        string
	CreditCard   CreditCard
}

// OrderResult is the outcome of a successful checkout. Created exactly
// once per checkout and never mutated afterwards.
type OrderResult struct {
	OrderID            string      `json:"order_id"`
	ShippingTrackingID string      `json:"shipping_tracking_id"`
	ShippingCost       money.Money `json:"shipping_cost"`
	ShippingAddress    Address     `json:"shipping_address"`
	Items              []OrderItem `json:"items"`
}
