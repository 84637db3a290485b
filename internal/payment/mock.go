package payment

import (
	"context"
	"fmt"
	"sync"
)

// MockGateway is an in-process Gateway for tests and for running the
// API without a Stripe key. It records the last input it received.
type MockGateway struct {
	mu       sync.Mutex
	sessions int

	// Err, when set, is returned by every call.
	Err error
	// LastInput is the input of the most recent successful call.
	LastInput *CheckoutInput
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) CreateCheckoutSession(_ context.Context, in CheckoutInput) (*CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}

	g.sessions++
	g.LastInput = &in
	return &CheckoutSession{
		ID:              fmt.Sprintf("cs_mock_%04d", g.sessions),
		PaymentIntentID: fmt.Sprintf("pi_mock_%04d", g.sessions),
		URL:             in.SuccessURL,
	}, nil
}
