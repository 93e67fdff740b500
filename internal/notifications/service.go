// Package notifications sends transactional order emails.
package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/narusushi/lunch-backend/pkg/db/models"
	"github.com/narusushi/lunch-backend/pkg/logger"
	"github.com/narusushi/lunch-backend/pkg/metrics"
	"github.com/narusushi/lunch-backend/pkg/sendgrid"
)

const (
	defaultBrand      = "Naru Sushi"
	defaultCutoffHour = 9
)

type mailer interface {
	Enabled() bool
	Send(ctx context.Context, msg sendgrid.Message) error
}

// Service dispatches order emails. When mail is not configured every send
// is skipped and logged.
type Service interface {
	SendOrderConfirmations(ctx context.Context, orders []models.Order) error
	SendPaymentFailures(ctx context.Context, orders []models.Order) error
}

type ServiceParams struct {
	Mailer     mailer
	Logger     *logger.Logger
	Metrics    *metrics.EmailMetrics
	Brand      string
	CutoffHour *int
	Clock      func() time.Time
}

type service struct {
	mailer     mailer
	logg       *logger.Logger
	metrics    *metrics.EmailMetrics
	brand      string
	cutoffHour int
	now        func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Mailer == nil {
		return nil, errors.New("mailer required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	s := &service{
		mailer:     params.Mailer,
		logg:       params.Logger,
		metrics:    params.Metrics,
		brand:      params.Brand,
		cutoffHour: defaultCutoffHour,
		now:        params.Clock,
	}
	if s.brand == "" {
		s.brand = defaultBrand
	}
	if params.CutoffHour != nil {
		s.cutoffHour = *params.CutoffHour
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// SendOrderConfirmations sends one email per order. Failures are collected
// and returned together after every order has been attempted.
func (s *service) SendOrderConfirmations(ctx context.Context, orders []models.Order) error {
	var errs error
	for _, order := range orders {
		email, err := renderConfirmation(s.brand, s.cutoffHour, order, s.now())
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, s.send(ctx, confirmationTemplate, order, email))
	}
	return errs
}

// SendPaymentFailures sends one email per order number and recipient.
func (s *service) SendPaymentFailures(ctx context.Context, orders []models.Order) error {
	type recipient struct{ number, email string }
	seen := make(map[recipient]struct{}, len(orders))

	var errs error
	for _, order := range orders {
		key := recipient{order.OrderNumber, order.ParentEmail}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		email, err := renderFailure(s.brand, order, s.now())
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, s.send(ctx, failureTemplate, order, email))
	}
	return errs
}

func (s *service) send(ctx context.Context, template string, order models.Order, email Email) error {
	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)
	label := strings.TrimSuffix(template, ".html")
	if !s.mailer.Enabled() {
		s.metrics.IncSkipped(label)
		s.logg.Info(ctx, "email service not configured; skipping send")
		return nil
	}

	err := s.mailer.Send(ctx, sendgrid.Message{
		ToName:    order.ParentName,
		ToEmail:   order.ParentEmail,
		Subject:   email.Subject,
		PlainText: email.PlainText,
		HTML:      email.HTML,
	})
	if err != nil {
		s.metrics.IncFailed(label)
		return fmt.Errorf("send %s for order %s: %w", label, order.OrderNumber, err)
	}
	s.metrics.IncSent(label)
	s.logg.Info(ctx, fmt.Sprintf("%s email sent to %s", label, order.ParentEmail))
	return nil
}
