package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/barbackhq/pos-backend/pkg/logger"
	"github.com/barbackhq/pos-backend/pkg/types"
)

// LoginLimiter is the fixed-window counter used to throttle login attempts.
type LoginLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// LoginRateLimit throttles credential attempts per client address. The
// limiter fails open: Redis being down must not lock staff out of the
// register.
func LoginRateLimit(limiter LoginLimiter, logg *logger.Logger, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			allowed, _, limitErr := limiter.FixedWindowAllow(r.Context(), "login:"+host, limit, window)
			if limitErr != nil {
				if logg != nil {
					logg.Warn(r.Context(), "login rate limiter unavailable")
				}
				allowed = true
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(types.NewErrorEnvelope("RATE_LIMITED", "too many login attempts"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
