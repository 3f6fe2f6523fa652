package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/barbackhq/pos-backend/api/middleware"
	"github.com/barbackhq/pos-backend/internal/staff"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

type stubStaffService struct {
	loginFn func(ctx context.Context, input staff.LoginInput) (*staff.LoginResult, error)
}

func (s *stubStaffService) Login(ctx context.Context, input staff.LoginInput) (*staff.LoginResult, error) {
	return s.loginFn(ctx, input)
}

func (s *stubStaffService) Create(ctx context.Context, organizationID uuid.UUID, input staff.CreateInput) (*models.Employee, error) {
	return nil, nil
}

func (s *stubStaffService) Get(ctx context.Context, organizationID, employeeID uuid.UUID) (*models.Employee, error) {
	return nil, nil
}

func (s *stubStaffService) List(ctx context.Context, organizationID uuid.UUID) ([]models.Employee, error) {
	return nil, nil
}

func (s *stubStaffService) Deactivate(ctx context.Context, organizationID, employeeID uuid.UUID) error {
	return nil
}

func identityContext(r *http.Request, role enums.EmployeeRole) *http.Request {
	ctx := middleware.WithIdentity(r.Context(), uuid.New(), uuid.New(), role)
	return r.WithContext(ctx)
}

func TestLoginReturnsToken(t *testing.T) {
	svc := &stubStaffService{
		loginFn: func(_ context.Context, input staff.LoginInput) (*staff.LoginResult, error) {
			require.Equal(t, "sam@barback.test", input.Email)
			return &staff.LoginResult{
				Token:     "signed-token",
				ExpiresAt: time.Now().Add(time.Hour),
				Employee:  &staff.EmployeeDTO{Email: input.Email, Role: enums.EmployeeRoleServer},
			}, nil
		},
	}

	body, _ := json.Marshal(map[string]string{
		"email":    "sam@barback.test",
		"password": "correct horse",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	Login(svc, testLogger())(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data staff.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "signed-token", envelope.Data.Token)
	require.Equal(t, "sam@barback.test", envelope.Data.Employee.Email)
}

func TestLoginRejectsBadPayload(t *testing.T) {
	svc := &stubStaffService{
		loginFn: func(context.Context, staff.LoginInput) (*staff.LoginResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	body, _ := json.Marshal(map[string]string{"email": "not-an-email"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	Login(svc, testLogger())(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}

func TestLoginSurfacesUnauthorized(t *testing.T) {
	svc := &stubStaffService{
		loginFn: func(context.Context, staff.LoginInput) (*staff.LoginResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		},
	}

	body, _ := json.Marshal(map[string]string{
		"email":    "sam@barback.test",
		"password": "wrong",
	})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	w := httptest.NewRecorder()

	Login(svc, testLogger())(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
