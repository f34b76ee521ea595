// Package billing creates checkout sessions for the hosted subscription flow.
package billing

import "context"

// CheckoutSession carries the client secret the frontend needs to mount the
// embedded checkout form.
type CheckoutSession struct {
	ClientSecret string `json:"clientSecret"`
}

// Provider creates checkout sessions against the payment processor.
type Provider interface {
	// CreateEmbeddedCheckout ensures the subscription price exists and
	// opens an embedded checkout session. The origin is used to build the
	// post-checkout return URL.
	CreateEmbeddedCheckout(ctx context.Context, origin string) (*CheckoutSession, error)
}
