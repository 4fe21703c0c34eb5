package domain

type CheckoutState string

const (
	// CheckoutStateEmpty means no session exists for the owner.
	CheckoutStateEmpty CheckoutState = "empty"
	// CheckoutStateCollecting means customer data is captured and the cart
	// snapshot is held, waiting for payment confirmation.
	CheckoutStateCollecting CheckoutState = "collecting"
	// CheckoutStateSubmitted means the order was persisted and the session
	// is spent.
	CheckoutStateSubmitted CheckoutState = "submitted"
)

// CheckoutSession bridges cart review and payment confirmation. It is
// created when the customer form passes validation, read once at payment
// time, and discarded after a successful submission.
type CheckoutSession struct {
	State    CheckoutState `json:"state"`
	Customer CustomerInfo  `json:"customer"`
	Items    []LineItem    `json:"items"`
}
