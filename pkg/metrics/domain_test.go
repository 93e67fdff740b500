package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMetricsObserveBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.ObserveBatch(3, nil)
	m.ObserveBatch(0, errors.New("boom"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	success, err := fetchCounterValue(mfs, "schoollunch_checkout_batches_total", "outcome", "success")
	require.NoError(t, err)
	assert.Equal(t, 1.0, success)

	failed, err := fetchCounterValue(mfs, "schoollunch_checkout_batches_total", "outcome", "error")
	require.NoError(t, err)
	assert.Equal(t, 1.0, failed)

	mf := findMetricFamily(mfs, "schoollunch_orders_created_total")
	require.NotNil(t, mf)
	assert.Equal(t, 3.0, mf.GetMetric()[0].GetCounter().GetValue())
}

func TestWebhookAndEmailMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	webhooks := NewWebhookMetrics(reg)
	emails := NewEmailMetrics(reg)

	webhooks.Inc("payment_intent.succeeded", "processed")
	webhooks.Inc("", "ignored")
	emails.IncSent("confirmation")
	emails.IncFailed("payment_failed")
	emails.IncSkipped("confirmation")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "schoollunch_stripe_webhook_events_total", "type", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "schoollunch_emails_failed_total", "template", "payment_failed")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "schoollunch_emails_skipped_total", "template", "confirmation")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}
