package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/narusushi/lunch-backend/api/responses"
	"github.com/narusushi/lunch-backend/pkg/config"
	pkgerrors "github.com/narusushi/lunch-backend/pkg/errors"
	"github.com/narusushi/lunch-backend/pkg/logger"
)

const readyTimeout = 2 * time.Second

// HealthResponse is the liveness payload polled by the keep-alive job.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func Health(cfg *config.Config, now func() time.Time) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-SchoolLunch-Env", cfg.App.Env)
		}
		responses.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: now().UTC()})
	}
}

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReady reports 503 until every named dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg != nil {
			w.Header().Set("X-SchoolLunch-Env", cfg.App.Env)
		}
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		failed := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
