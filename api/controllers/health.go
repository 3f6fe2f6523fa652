package controllers

import (
	"net/http"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/pkg/db"
	"github.com/barbackhq/pos-backend/pkg/logger"
	pkgredis "github.com/barbackhq/pos-backend/pkg/redis"
)

// HealthLive reports process liveness.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady reports readiness by pinging the datastores.
func HealthReady(database db.Pinger, cache pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}
		healthy := true

		if database == nil || database.Ping(r.Context()) != nil {
			checks["database"] = "unavailable"
			healthy = false
		}
		if cache == nil || cache.Ping(r.Context()) != nil {
			checks["redis"] = "unavailable"
			healthy = false
		}

		if !healthy {
			if logg != nil {
				logg.Warn(r.Context(), "readiness check failed")
			}
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, checks)
			return
		}
		responses.WriteSuccess(w, checks)
	}
}
