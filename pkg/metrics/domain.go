package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts checkout batches and the orders they expand into.
type OrderMetrics struct {
	batches *prometheus.CounterVec
	orders  prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_batches_total",
		Help:      "Checkout submissions by outcome.",
	}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders persisted across all checkouts.",
	})
	reg.MustRegister(batches, orders)
	return &OrderMetrics{batches: batches, orders: orders}
}

// ObserveBatch records one checkout and, on success, how many orders it created.
func (m *OrderMetrics) ObserveBatch(ordersCreated int, err error) {
	if m == nil || m.batches == nil {
		return
	}
	if err != nil {
		m.batches.WithLabelValues("error").Inc()
		return
	}
	m.batches.WithLabelValues("success").Inc()
	m.orders.Add(float64(ordersCreated))
}

// WebhookMetrics counts Stripe events by type and handling outcome.
type WebhookMetrics struct {
	events *prometheus.CounterVec
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stripe_webhook_events_total",
		Help:      "Stripe webhook events received.",
	}, []string{"type", "outcome"})
	reg.MustRegister(events)
	return &WebhookMetrics{events: events}
}

func (m *WebhookMetrics) Inc(eventType, outcome string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(eventType), normalizeLabel(outcome)).Inc()
}

// EmailMetrics counts notification attempts per template.
type EmailMetrics struct {
	sent    *prometheus.CounterVec
	failed  *prometheus.CounterVec
	skipped *prometheus.CounterVec
}

func NewEmailMetrics(reg prometheus.Registerer) *EmailMetrics {
	if reg == nil {
		return &EmailMetrics{}
	}
	newVec := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"template"})
	}
	m := &EmailMetrics{
		sent:    newVec("emails_sent_total", "Emails accepted by the provider."),
		failed:  newVec("emails_failed_total", "Emails the provider rejected or could not be reached for."),
		skipped: newVec("emails_skipped_total", "Emails not attempted because delivery is not configured."),
	}
	reg.MustRegister(m.sent, m.failed, m.skipped)
	return m
}

func (m *EmailMetrics) IncSent(template string) {
	if m == nil || m.sent == nil {
		return
	}
	m.sent.WithLabelValues(normalizeLabel(template)).Inc()
}

func (m *EmailMetrics) IncFailed(template string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(template)).Inc()
}

func (m *EmailMetrics) IncSkipped(template string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(template)).Inc()
}
