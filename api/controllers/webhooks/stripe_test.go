package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
)

const testSecret = "whsec_test"

func TestStripeWebhookAcknowledgesSignedEvent(t *testing.T) {
	payload, header := buildSignedEvent(t, stripe.EventTypePaymentIntentSucceeded)
	service := &fakeStripeWebhookService{}
	handler := StripeWebhook(service, fakeSigningClient{secret: testSecret}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"received":true}`, rec.Body.String())
	require.Len(t, service.events, 1)
	assert.Equal(t, stripe.EventTypePaymentIntentSucceeded, service.events[0].Type)
}

func TestStripeWebhookRejectsInvalidSignature(t *testing.T) {
	payload, _ := buildSignedEvent(t, stripe.EventTypePaymentIntentSucceeded)
	service := &fakeStripeWebhookService{}
	handler := StripeWebhook(service, fakeSigningClient{secret: testSecret}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=invalid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.events)
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	payload, _ := buildSignedEvent(t, stripe.EventTypePaymentIntentSucceeded)
	service := &fakeStripeWebhookService{}
	handler := StripeWebhook(service, fakeSigningClient{secret: testSecret}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.events)
}

func TestStripeWebhookSurfacesServiceFailure(t *testing.T) {
	payload, header := buildSignedEvent(t, stripe.EventTypePaymentIntentSucceeded)
	service := &fakeStripeWebhookService{err: pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("db down"), "Failed to update order")}
	handler := StripeWebhook(service, fakeSigningClient{secret: testSecret}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"db down"`)
}

func TestStripeWebhookAcceptsOtherAPIVersion(t *testing.T) {
	payload, header := buildSignedEventForVersion(t, stripe.EventTypePaymentIntentSucceeded, "2020-08-27")
	service := &fakeStripeWebhookService{}
	handler := StripeWebhook(service, fakeSigningClient{secret: testSecret}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, service.events, 1)
}

func buildSignedEvent(t *testing.T, eventType stripe.EventType) ([]byte, string) {
	t.Helper()
	return buildSignedEventForVersion(t, eventType, stripe.APIVersion)
}

func buildSignedEventForVersion(t *testing.T, eventType stripe.EventType, apiVersion string) ([]byte, string) {
	t.Helper()
	rawIntent, err := json.Marshal(&stripe.PaymentIntent{ID: "pi_" + uuid.NewString()})
	require.NoError(t, err)

	event := &stripe.Event{
		ID:         "evt_" + uuid.NewString(),
		Type:       eventType,
		Object:     "event",
		APIVersion: apiVersion,
		Data:       &stripe.EventData{Raw: rawIntent},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return payload, buildStripeSignatureHeader(payload, testSecret, time.Now().Unix())
}

func buildStripeSignatureHeader(payload []byte, secret string, ts int64) string {
	signedPayload := fmt.Sprintf("%d.%s", ts, payload)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signedPayload))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

type fakeStripeWebhookService struct {
	events []*stripe.Event
	err    error
}

func (f *fakeStripeWebhookService) HandleEvent(_ context.Context, event *stripe.Event) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeSigningClient struct {
	secret string
}

func (c fakeSigningClient) SigningSecret() string {
	return c.secret
}
