package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns a correlation id to every request, honoring the inbound
// header when the client supplies one.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := withRequestID(r.Context(), requestID)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, requestID)
			}

			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
