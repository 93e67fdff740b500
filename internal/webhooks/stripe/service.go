package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v84"

	"github.com/narusushi/lunch-backend/pkg/db/models"
	"github.com/narusushi/lunch-backend/pkg/enums"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
	"github.com/narusushi/lunch-backend/pkg/metrics"
)

const (
	outcomeApplied = "applied"
	outcomeIgnored = "ignored"
	outcomeError   = "error"
)

type orderRepository interface {
	UpdatePaymentByIntent(ctx context.Context, paymentIntentID string, paymentStatus enums.PaymentStatus, status *enums.OrderStatus, now time.Time) (int64, error)
	ListByPaymentIntent(ctx context.Context, paymentIntentID string) ([]models.Order, error)
}

type notifier interface {
	SendOrderConfirmations(ctx context.Context, orders []models.Order) error
	SendPaymentFailures(ctx context.Context, orders []models.Order) error
}

type emailGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

type ServiceParams struct {
	Orders   orderRepository
	Notifier notifier
	// EmailGuard suppresses repeat emails when Stripe redelivers an event.
	// Optional.
	EmailGuard emailGuard
	Metrics    *metrics.WebhookMetrics
	Logger     *logger.Logger
	Clock      func() time.Time
	// RunAsync runs email dispatch off the request path. Defaults to a goroutine.
	RunAsync func(func())
}

// Service applies Stripe payment intent events to orders.
type Service struct {
	orders   orderRepository
	notifier notifier
	guard    emailGuard
	metrics  *metrics.WebhookMetrics
	logg     *logger.Logger
	now      func() time.Time
	runAsync func(func())
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	s := &Service{
		orders:   params.Orders,
		notifier: params.Notifier,
		guard:    params.EmailGuard,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      params.Clock,
		runAsync: params.RunAsync,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.runAsync == nil {
		s.runAsync = func(fn func()) { go fn() }
	}
	return s, nil
}

// HandleEvent updates order payment state for payment intent events. Other
// event types are acknowledged without side effects. The status update is
// re-applied on redelivery; emails are sent at most once per event when an
// email guard is configured.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) (err error) {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}
	eventType := string(event.Type)

	var (
		paymentStatus enums.PaymentStatus
		status        *enums.OrderStatus
		send          func(context.Context, []models.Order) error
	)
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		confirmed := enums.OrderStatusConfirmed
		paymentStatus, status = enums.PaymentStatusPaid, &confirmed
		send = s.notifier.SendOrderConfirmations
	case stripe.EventTypePaymentIntentPaymentFailed:
		paymentStatus = enums.PaymentStatusFailed
		send = s.notifier.SendPaymentFailures
	default:
		s.metrics.Inc(eventType, outcomeIgnored)
		return nil
	}

	defer func() {
		if err != nil {
			s.metrics.Inc(eventType, outcomeError)
			return
		}
		s.metrics.Inc(eventType, outcomeApplied)
	}()

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent event")
	}
	if intent.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id missing")
	}
	ctx = s.logg.WithPaymentIntent(ctx, intent.ID)

	updated, err := s.orders.UpdatePaymentByIntent(ctx, intent.ID, paymentStatus, status, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Failed to update order")
	}
	s.logg.Info(ctx, fmt.Sprintf("%s applied to %d orders", eventType, updated))
	if updated == 0 {
		return nil
	}

	if s.guard != nil {
		seen, err := s.guard.CheckAndMark(ctx, event.ID)
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("email idempotency check failed: %v", err))
		} else if seen {
			s.logg.Info(ctx, "emails already dispatched for event "+event.ID)
			return nil
		}
	}

	s.dispatch(ctx, event.ID, intent.ID, send)
	return nil
}

// dispatch loads the orders and sends their emails without blocking the
// webhook response. On failure the event mark is cleared so a redelivery
// retries the emails.
func (s *Service) dispatch(ctx context.Context, eventID, paymentIntentID string, send func(context.Context, []models.Order) error) {
	ctx = context.WithoutCancel(ctx)
	s.runAsync(func() {
		orders, err := s.orders.ListByPaymentIntent(ctx, paymentIntentID)
		if err != nil {
			s.logg.Error(ctx, "load orders for email", err)
			s.releaseMark(ctx, eventID)
			return
		}
		if err := send(ctx, orders); err != nil {
			s.logg.Error(ctx, "send order emails", err)
			s.releaseMark(ctx, eventID)
		}
	})
}

func (s *Service) releaseMark(ctx context.Context, eventID string) {
	if s.guard == nil {
		return
	}
	if err := s.guard.Delete(ctx, eventID); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("clear email idempotency mark: %v", err))
	}
}
