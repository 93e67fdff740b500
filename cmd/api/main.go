package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/narusushi/lunch-backend/api/controllers"
	"github.com/narusushi/lunch-backend/api/routes"
	"github.com/narusushi/lunch-backend/internal/auth"
	"github.com/narusushi/lunch-backend/internal/cart"
	"github.com/narusushi/lunch-backend/internal/catalog"
	"github.com/narusushi/lunch-backend/internal/delivery"
	"github.com/narusushi/lunch-backend/internal/notifications"
	"github.com/narusushi/lunch-backend/internal/orders"
	"github.com/narusushi/lunch-backend/internal/payments"
	"github.com/narusushi/lunch-backend/internal/production"
	stripewebhook "github.com/narusushi/lunch-backend/internal/webhooks/stripe"
	"github.com/narusushi/lunch-backend/pkg/config"
	"github.com/narusushi/lunch-backend/pkg/db"
	"github.com/narusushi/lunch-backend/pkg/logger"
	"github.com/narusushi/lunch-backend/pkg/metrics"
	"github.com/narusushi/lunch-backend/pkg/migrate"
	"github.com/narusushi/lunch-backend/pkg/redis"
	"github.com/narusushi/lunch-backend/pkg/sendgrid"
	"github.com/narusushi/lunch-backend/pkg/stripe"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// Money leaves the API as JSON numbers, as the storefront expects.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	policy, err := delivery.NewPolicy(cfg.Orders)
	if err != nil {
		logg.Error(ctx, "invalid order cutoff settings", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStorage, err := cart.NewRedisStorage(redisClient, cfg.Redis.CartTTL)
	if err != nil {
		logg.Error(ctx, "failed to create cart storage", err)
		os.Exit(1)
	}
	cartStore, err := cart.NewStore(cartStorage, cart.WithCutoff(policy))
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(dbClient, ordersRepo, logg,
		orders.WithCartSource(cartStore),
		orders.WithCutoff(policy),
		orders.WithNumberGenerator(orders.NewNumberGenerator(cfg.Orders.NumberPrefix)),
		orders.WithMetrics(metrics.NewOrderMetrics(registry)),
	)
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	productionService, err := production.NewService(ordersRepo, catalogService)
	if err != nil {
		logg.Error(ctx, "failed to create production service", err)
		os.Exit(1)
	}

	var authService auth.Service
	if cfg.AuthEnabled() {
		authService, err = auth.NewService(auth.ServiceParams{
			Admin:  cfg.Admin,
			JWT:    cfg.JWT,
			Logger: logg,
		})
		if err != nil {
			logg.Error(ctx, "failed to create admin auth service", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "admin auth disabled: admin password hash or jwt secret not set")
	}

	deps := routes.Dependencies{
		Config:   cfg,
		Logger:   logg,
		Gatherer: registry,
		Readiness: map[string]controllers.Pinger{
			"postgres": dbClient,
			"redis":    redisClient,
		},
		Catalog:    catalogService,
		Cart:       cartStore,
		Orders:     ordersService,
		Production: productionService,
		Auth:       authService,
	}

	stripeClient, err := stripe.NewClient(ctx, cfg.Stripe, logg)
	if err != nil {
		logg.Warn(ctx, "stripe disabled: "+err.Error())
	} else {
		paymentsService, err := payments.NewService(payments.NewStripeIntentClient(stripeClient), stripeClient.Currency(), logg)
		if err != nil {
			logg.Error(ctx, "failed to create payments service", err)
			os.Exit(1)
		}

		notifier, err := notifications.NewService(notifications.ServiceParams{
			Mailer:     sendgrid.NewClient(ctx, cfg.Sendgrid, logg),
			Logger:     logg,
			Metrics:    metrics.NewEmailMetrics(registry),
			Brand:      cfg.Sendgrid.FromName,
			CutoffHour: &cfg.Orders.CutoffHour,
		})
		if err != nil {
			logg.Error(ctx, "failed to create notifications service", err)
			os.Exit(1)
		}

		emailGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Eventing.WebhookIdempotencyTTL, "stripe-email")
		if err != nil {
			logg.Error(ctx, "failed to create webhook idempotency guard", err)
			os.Exit(1)
		}

		webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
			Orders:     ordersRepo,
			Notifier:   notifier,
			EmailGuard: emailGuard,
			Metrics:    metrics.NewWebhookMetrics(registry),
			Logger:     logg,
		})
		if err != nil {
			logg.Error(ctx, "failed to create stripe webhook service", err)
			os.Exit(1)
		}

		deps.Payments = paymentsService
		deps.Stripe = stripeClient
		deps.Webhook = webhookService
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(serverCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "api server shutdown failed", err)
		}
	}
}
