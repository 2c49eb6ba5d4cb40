package billing

import (
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// SessionCreator is the slice of the payments provider our handlers need.
// It is implemented by StripeClient (production) and by test fakes.
type SessionCreator interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeClient calls the hosted Stripe Checkout API.
// The secret key is set once at startup (see cmd/api/main.go); if it was
// missing there, requests fail here at call time rather than at boot.
type StripeClient struct{}

// NewStripeClient configures the global Stripe key and returns the client.
// An empty key is allowed on purpose: the provider rejects the call later.
func NewStripeClient(apiKey string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{}
}

func (s *StripeClient) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

// ErrorMessage extracts a safe, human-readable message from a provider
// failure. Stripe errors carry their own message; anything else falls
// back to the generic error text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
