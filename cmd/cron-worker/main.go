package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/narusushi/lunch-backend/internal/cron"
	"github.com/narusushi/lunch-backend/pkg/config"
	"github.com/narusushi/lunch-backend/pkg/logger"
	"github.com/narusushi/lunch-backend/pkg/metrics"
	"github.com/narusushi/lunch-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	// The keep-alive only exists to stop the production host idling out.
	if !cfg.App.IsProd() {
		logg.Info(ctx, "keep-alive disabled outside production")
		return
	}
	if cfg.KeepAlive.BackendURL == "" {
		logg.Warn(ctx, "keep-alive disabled: SCHOOLLUNCH_BACKEND_URL not set")
		return
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

	keepAlive, err := cron.NewKeepAliveJob(cron.KeepAliveJobParams{
		Logger:     logg,
		BackendURL: cfg.KeepAlive.BackendURL,
		Timeout:    cfg.KeepAlive.Timeout,
	})
	if err != nil {
		logg.Error(ctx, "failed to create keep-alive job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(keepAlive.Name()), 0)
	if err != nil {
		logg.Error(ctx, "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(keepAlive),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.KeepAlive.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		os.Exit(1)
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
}
