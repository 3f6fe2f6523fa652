package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/barbackhq/pos-backend/pkg/auth"
	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-at-least-32-bytes-long",
		Issuer:            "barback-pos",
		ExpirationMinutes: 30,
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, employeeID, orgID uuid.UUID) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		EmployeeID:     employeeID,
		OrganizationID: orgID,
		Role:           enums.EmployeeRoleServer,
	})
	require.NoError(t, err)
	return token
}

func TestAuthSeedsIdentity(t *testing.T) {
	cfg := authTestConfig()
	employee := uuid.New()
	org := uuid.New()

	var gotEmployee, gotOrg uuid.UUID
	handler := Auth(cfg, middlewareLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmployee, _ = EmployeeIDFromContext(r.Context())
		gotOrg, _ = OrganizationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, employee, org))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, employee, gotEmployee)
	require.Equal(t, org, gotOrg)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler := Auth(authTestConfig(), middlewareLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsTamperedToken(t *testing.T) {
	cfg := authTestConfig()
	other := cfg
	other.Secret = "a-completely-different-signing-secret"

	handler := Auth(cfg, middlewareLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer "+mintTestToken(t, other, uuid.New(), uuid.New()))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsOrganizationMismatch(t *testing.T) {
	cfg := authTestConfig()

	handler := Auth(cfg, middlewareLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, uuid.New(), uuid.New()))
	r.Header.Set("X-Organization-Id", uuid.NewString())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthAcceptsMatchingOrganizationHeader(t *testing.T) {
	cfg := authTestConfig()
	org := uuid.New()

	handler := Auth(cfg, middlewareLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	r.Header.Set("Authorization", "Bearer "+mintTestToken(t, cfg, uuid.New(), org))
	r.Header.Set("X-Organization-Id", org.String())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}
