package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/narusushi/lunch-backend/api/controllers"
	cartcontrollers "github.com/narusushi/lunch-backend/api/controllers/cart"
	ordercontrollers "github.com/narusushi/lunch-backend/api/controllers/orders"
	productioncontrollers "github.com/narusushi/lunch-backend/api/controllers/production"
	webhookcontrollers "github.com/narusushi/lunch-backend/api/controllers/webhooks"
	"github.com/narusushi/lunch-backend/api/middleware"
	"github.com/narusushi/lunch-backend/internal/auth"
	"github.com/narusushi/lunch-backend/internal/catalog"
	"github.com/narusushi/lunch-backend/internal/orders"
	"github.com/narusushi/lunch-backend/internal/payments"
	"github.com/narusushi/lunch-backend/internal/production"
	"github.com/narusushi/lunch-backend/pkg/config"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

type stripeClient interface {
	SigningSecret() string
}

// Dependencies is everything the HTTP surface is wired against. Nil
// services make their routes answer with a typed error.
type Dependencies struct {
	Config     *config.Config
	Logger     *logger.Logger
	Gatherer   prometheus.Gatherer
	Readiness  map[string]controllers.Pinger
	Catalog    catalog.Service
	Cart       cartcontrollers.Store
	Orders     orders.Service
	Production production.Service
	Payments   payments.Service
	Auth       auth.Service
	Stripe     stripeClient
	Webhook    webhookcontrollers.StripeWebhookService
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	if cfg == nil {
		cfg = &config.Config{}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// Admin views are open until an admin password hash and JWT secret exist.
	admin := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.AuthEnabled() {
		guard := middleware.AdminAuth(cfg.JWT, logg)
		admin = func(h http.HandlerFunc) http.Handler { return guard(h) }
	}

	r.Get("/health", controllers.Health(cfg, nil))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, deps.Readiness))

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", controllers.MenuList(deps.Catalog, logg))
		r.Get("/schools", controllers.SchoolList(deps.Catalog, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Method(http.MethodGet, "/", admin(ordercontrollers.List(deps.Orders, logg)))
			r.Post("/", ordercontrollers.Create(deps.Orders, logg))
			r.Get("/{orderNumber}", ordercontrollers.Get(deps.Orders, logg))
		})

		r.Route("/production-list", func(r chi.Router) {
			r.Get("/", productioncontrollers.FlatList(deps.Production, logg))
			r.Method(http.MethodGet, "/categories", admin(productioncontrollers.Categories(deps.Production, logg)))
			r.Method(http.MethodGet, "/export", admin(productioncontrollers.Export(deps.Production, logg, nil)))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(deps.Cart, logg))
			r.Post("/", cartcontrollers.Add(deps.Cart, logg))
			r.Delete("/", cartcontrollers.Clear(deps.Cart, logg))
			r.Patch("/{cartId}", cartcontrollers.UpdateQuantity(deps.Cart, logg))
			r.Delete("/{cartId}", cartcontrollers.Remove(deps.Cart, logg))
		})

		r.Post("/create-payment-intent", controllers.CreatePaymentIntent(deps.Payments, logg))
		r.Post("/webhook", webhookcontrollers.StripeWebhook(deps.Webhook, deps.Stripe, logg))
		r.Post("/admin/login", controllers.AdminLogin(deps.Auth, logg))
	})

	return r
}
