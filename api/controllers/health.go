package controllers

import (
	"net/http"

	"github.com/jortega-dev/inventario-backend/api/responses"
	"github.com/jortega-dev/inventario-backend/pkg/config"
	"github.com/jortega-dev/inventario-backend/pkg/db"
	"github.com/jortega-dev/inventario-backend/pkg/logger"
	"github.com/jortega-dev/inventario-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Inventario-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports whether the API can reach its dependencies. The
// database is required; redis only participates when configured.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Inventario-Env", cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.db", err)
				}
			} else {
				checks["database"] = "ok"
			}
		}

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(r.Context(), "health.redis", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		responses.WriteSuccessStatus(w, status, checks)
	}
}
