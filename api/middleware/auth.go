package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/pkg/auth"
	"github.com/barbackhq/pos-backend/pkg/config"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
)

const organizationHeader = "X-Organization-Id"

// Auth validates the bearer token and seeds the request context with the
// authenticated employee. When the client pins an organization via header it
// must match the token's tenant.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			claims, err := auth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token"))
				return
			}

			if header := strings.TrimSpace(r.Header.Get(organizationHeader)); header != "" {
				headerOrg, parseErr := uuid.Parse(header)
				if parseErr != nil || headerOrg != claims.OrganizationID {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.New(pkgerrors.CodeForbidden, "organization mismatch"))
					return
				}
			}

			ctx := WithIdentity(r.Context(), claims.EmployeeID, claims.OrganizationID, claims.Role)
			if logg != nil {
				ctx = logg.WithEmployeeID(ctx, claims.EmployeeID.String())
				ctx = logg.WithOrganizationID(ctx, claims.OrganizationID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
