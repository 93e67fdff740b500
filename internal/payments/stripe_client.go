package payments

import (
	"context"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/paymentintent"

	pkgstripe "github.com/narusushi/lunch-backend/pkg/stripe"
)

// IntentClient exposes the subset of Stripe operations the payment service needs.
type IntentClient interface {
	Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type stripeIntentClient struct{}

// NewStripeIntentClient returns nil when Stripe is not configured.
func NewStripeIntentClient(api *pkgstripe.Client) IntentClient {
	if api == nil {
		return nil
	}
	return stripeIntentClient{}
}

func (stripeIntentClient) Create(ctx context.Context, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params != nil {
		params.Context = ctx
	}
	return paymentintent.New(params)
}
