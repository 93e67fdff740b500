package controllers

import (
	"net/http"

	"github.com/narusushi/lunch-backend/api/responses"
	"github.com/narusushi/lunch-backend/api/validators"
	"github.com/narusushi/lunch-backend/internal/payments"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

type createPaymentIntentRequest struct {
	Amount   float64        `json:"amount"`
	Metadata map[string]any `json:"metadata"`
}

type createPaymentIntentResponse struct {
	Success         bool   `json:"success"`
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CreatePaymentIntent opens a Stripe payment intent for the checkout total.
func CreatePaymentIntent(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "payments are not configured"))
			return
		}

		var req createPaymentIntentRequest
		if err := validators.DecodeLenientJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateIntent(r.Context(), payments.CreateIntentInput{
			Amount:   req.Amount,
			Metadata: req.Metadata,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, createPaymentIntentResponse{
			Success:         true,
			ClientSecret:    result.ClientSecret,
			PaymentIntentID: result.PaymentIntentID,
		})
	}
}
