package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SKB-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-SKB-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		statuses := map[string]string{}
		healthy := true
		for name, dep := range deps {
			if dep == nil {
				statuses[name] = "skipped"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				statuses[name] = "down"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness check failed for "+name, err)
				}
				continue
			}
			statuses[name] = "up"
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": map[bool]string{true: "ready", false: "degraded"}[healthy],
			"deps":   statuses,
		})
	}
}
