package checkout

import (
	"errors"
	"fmt"
)

// Sentinel errors for the checkout failure taxonomy. Collaborator
// adapters map their transport-level failures onto these so the
// orchestrator and its callers can branch on errors.Is.
var (
	// ErrEmptyCart means the user's cart had no items. Terminal
	// precondition; nothing downstream is attempted.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrProductNotFound means a cart line references an unknown product.
	ErrProductNotFound = errors.New("product not found")

	// ErrPaymentDeclined means the payment collaborator rejected the card.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentUnavailable means the payment collaborator could not be
	// reached or answered with a server failure.
	ErrPaymentUnavailable = errors.New("payment unavailable")

	// ErrShippingUnavailable means the shipping quote failed.
	ErrShippingUnavailable = errors.New("shipping unavailable")

	// ErrEmailUnavailable means the confirmation could not be sent.
	ErrEmailUnavailable = errors.New("email unavailable")

	// ErrTimeout means a step exceeded its deadline.
	ErrTimeout = errors.New("step timed out")
)

// Error is the top-level checkout failure returned by PlaceOrder. It
// wraps the first underlying cause and preserves the one distinction
// callers must be able to make: whether a payment had already been
// captured when the pipeline stopped.
type Error struct {
	// Step is the pipeline step that failed first.
	Step string

	// Charged reports whether the payment was captured before the
	// failure. When false, nothing was charged.
	Charged bool

	// TransactionID is the payment transaction, set only when Charged.
	TransactionID string

	// Refunded reports whether compensation returned the charge.
	// Meaningful only when Charged.
	Refunded bool

	// Err is the first underlying cause.
	Err error
}

func (e *Error) Error() string {
	if !e.Charged {
		return fmt.Sprintf("checkout failed at %s (nothing charged): %v", e.Step, e.Err)
	}
	if e.Refunded {
		return fmt.Sprintf("checkout failed at %s (charge %s refunded): %v", e.Step, e.TransactionID, e.Err)
	}
	return fmt.Sprintf("checkout failed at %s (charge %s NOT refunded): %v", e.Step, e.TransactionID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
