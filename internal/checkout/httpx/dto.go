package httpx

import "github.com/onlineboutique/checkout/internal/checkout"

type placeOrderRequest struct {
	UserID       string              `json:"user_id"`
	UserCurrency string              `json:"user_currency"`
	Email        string              `json:"email"`
	Address      checkout.Address    `json:"address"`
	CreditCard   checkout.CreditCard `json:"credit_card"`
}

type orderStatusResponse struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Step      string `json:"step,omitempty"`
	Detail    string `json:"detail,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

type currenciesResponse struct {
	CurrencyCodes []string `json:"currency_codes"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Charged is set on checkout failures so API consumers can tell a
	// clean failure from one where a payment was captured first.
	Charged bool `json:"charged,omitempty"`
}
