// Package payments creates Stripe payment intents for checkout.
package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

const defaultCurrency = "nzd"

type CreateIntentInput struct {
	// Amount is in major currency units, e.g. 17.50 NZD.
	Amount   float64
	// Metadata values are stringified before they reach Stripe.
	Metadata map[string]any
}

type IntentResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type Service interface {
	CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentResult, error)
}

type service struct {
	client   IntentClient
	currency string
	logg     *logger.Logger
}

func NewService(client IntentClient, currency string, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("stripe intent client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultCurrency
	}
	return &service{client: client, currency: currency, logg: logg}, nil
}

func (s *service) CreateIntent(ctx context.Context, input CreateIntentInput) (*IntentResult, error) {
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid amount")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(input.Amount)),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for k, v := range input.Metadata {
		if v == nil {
			continue
		}
		params.AddMetadata(k, fmt.Sprint(v))
	}

	intent, err := s.client.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment intent")
	}

	ctx = s.logg.WithPaymentIntent(ctx, intent.ID)
	s.logg.Info(ctx, "payment intent created")
	return &IntentResult{ClientSecret: intent.ClientSecret, PaymentIntentID: intent.ID}, nil
}

// MinorUnits converts a major-unit amount to cents, rounding half away from zero.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}
