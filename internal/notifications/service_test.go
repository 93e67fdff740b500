package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narusushi/lunch-backend/pkg/db/models"
	dbtypes "github.com/narusushi/lunch-backend/pkg/db/types"
	"github.com/narusushi/lunch-backend/pkg/logger"
	"github.com/narusushi/lunch-backend/pkg/metrics"
	"github.com/narusushi/lunch-backend/pkg/sendgrid"
)

type fakeMailer struct {
	enabled bool
	fail    map[string]bool
	sent    []sendgrid.Message
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) Send(_ context.Context, msg sendgrid.Message) error {
	if f.fail[msg.ToEmail] {
		return errors.New("status 403")
	}
	f.sent = append(f.sent, msg)
	return nil
}

var sentAt = time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

func sampleOrder(number, email string) models.Order {
	return models.Order{
		OrderNumber:  number,
		StudentName:  "Aroha <3",
		Room:         "12",
		School:       "Westmere School",
		DeliveryDate: dbtypes.NewDate(2025, 5, 14),
		ParentName:   "Hana",
		ParentEmail:  email,
		TotalAmount:  decimal.RequireFromString("17"),
		Items: []models.OrderItem{{
			ItemName:  "Salmon Roll",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("8.5"),
			Subtotal:  decimal.RequireFromString("17"),
		}},
	}
}

func newTestService(t *testing.T, m *fakeMailer, em *metrics.EmailMetrics) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Mailer:  m,
		Logger:  logger.Nop(),
		Metrics: em,
		Clock:   func() time.Time { return sentAt },
	})
	require.NoError(t, err)
	return svc
}

func TestSendOrderConfirmations(t *testing.T) {
	m := &fakeMailer{enabled: true}
	svc := newTestService(t, m, nil)

	err := svc.SendOrderConfirmations(context.Background(), []models.Order{
		sampleOrder("NS1", "hana@example.com"),
		sampleOrder("NS1", "hana@example.com"),
	})
	require.NoError(t, err)
	require.Len(t, m.sent, 2)

	msg := m.sent[0]
	assert.Equal(t, "Order Confirmation - NS1", msg.Subject)
	assert.Equal(t, "hana@example.com", msg.ToEmail)
	assert.Contains(t, msg.HTML, "Wednesday, 14 May 2025")
	assert.Contains(t, msg.HTML, "<td>Salmon Roll</td><td>2</td><td>$8.50</td><td>$17.00</td>")
	assert.Contains(t, msg.HTML, "Total: $17.00 NZD")
	assert.Contains(t, msg.HTML, "9:00 AM")
	assert.Contains(t, msg.HTML, "Aroha &lt;3", "names are escaped")
	assert.Contains(t, msg.HTML, "&copy; 2025 Naru Sushi")
	assert.Contains(t, msg.PlainText, "2 x Salmon Roll  $17.00")
}

func TestSendPaymentFailuresOncePerBatch(t *testing.T) {
	m := &fakeMailer{enabled: true}
	svc := newTestService(t, m, nil)

	err := svc.SendPaymentFailures(context.Background(), []models.Order{
		sampleOrder("NS1", "hana@example.com"),
		sampleOrder("NS1", "hana@example.com"),
	})
	require.NoError(t, err)
	require.Len(t, m.sent, 1)
	assert.Equal(t, "Payment Issue - Order NS1", m.sent[0].Subject)
	assert.Contains(t, m.sent[0].HTML, "Payment Issue Detected")
}

func TestSendSkippedWhenDisabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	em := metrics.NewEmailMetrics(reg)
	m := &fakeMailer{enabled: false}
	svc := newTestService(t, m, em)

	require.NoError(t, svc.SendOrderConfirmations(context.Background(), []models.Order{sampleOrder("NS1", "hana@example.com")}))
	assert.Empty(t, m.sent)

	count, err := testutil.GatherAndCount(reg, "schoollunch_emails_skipped_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSendCollectsFailures(t *testing.T) {
	m := &fakeMailer{enabled: true, fail: map[string]bool{"bad@example.com": true}}
	svc := newTestService(t, m, nil)

	err := svc.SendOrderConfirmations(context.Background(), []models.Order{
		sampleOrder("NS1", "bad@example.com"),
		sampleOrder("NS2", "hana@example.com"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NS1")
	assert.Len(t, m.sent, 1, "remaining orders are still attempted")
}

func TestNewServiceRequiresMailer(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.Nop()})
	assert.Error(t, err)
}
