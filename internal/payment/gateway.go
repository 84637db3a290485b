// Package payment abstracts the external payment processor behind a
// small Gateway interface so checkout logic can be exercised against a
// mock while production runs against Stripe.
package payment

import "context"

// LineItem is one purchasable row of a checkout session. UnitAmount is
// in minor currency units (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// CheckoutInput carries everything the gateway needs to open a session.
type CheckoutInput struct {
	Currency   string
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the gateway's transient object representing a
// pending payment. PaymentIntentID is attached to the order so the
// payment can be reconciled later.
type CheckoutSession struct {
	ID              string `json:"id"`
	PaymentIntentID string `json:"paymentIntent"`
	URL             string `json:"url"`
}

// Gateway is the payment processor boundary. A failed call must leave
// no trace: callers create orders only after the session exists.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
}
