package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/barbackhq/pos-backend/internal/menu"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type stubMenuService struct {
	listFn   func(ctx context.Context, organizationID uuid.UUID, filters menu.ListFilters) ([]models.MenuItem, error)
	deleteFn func(ctx context.Context, organizationID, itemID uuid.UUID) error
}

func (s *stubMenuService) Create(ctx context.Context, organizationID uuid.UUID, input menu.CreateInput) (*models.MenuItem, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubMenuService) Get(ctx context.Context, organizationID, itemID uuid.UUID) (*models.MenuItem, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubMenuService) List(ctx context.Context, organizationID uuid.UUID, filters menu.ListFilters) ([]models.MenuItem, error) {
	return s.listFn(ctx, organizationID, filters)
}

func (s *stubMenuService) Update(ctx context.Context, organizationID, itemID uuid.UUID, input menu.UpdateInput) (*models.MenuItem, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubMenuService) SetAvailability(ctx context.Context, organizationID, itemID uuid.UUID, available bool) (*models.MenuItem, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubMenuService) Delete(ctx context.Context, organizationID, itemID uuid.UUID) error {
	return s.deleteFn(ctx, organizationID, itemID)
}

func TestMenuDeleteRequiresManagerRole(t *testing.T) {
	svc := &stubMenuService{
		deleteFn: func(context.Context, uuid.UUID, uuid.UUID) error {
			t.Fatal("service must not be called")
			return nil
		},
	}

	router := chi.NewRouter()
	router.Delete("/menu/{itemId}", MenuDelete(svc, testLogger()))

	r := httptest.NewRequest(http.MethodDelete, "/menu/"+uuid.NewString(), nil)
	r = identityContext(r, enums.EmployeeRoleServer)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMenuDeleteAllowsManager(t *testing.T) {
	deleted := false
	svc := &stubMenuService{
		deleteFn: func(context.Context, uuid.UUID, uuid.UUID) error {
			deleted = true
			return nil
		},
	}

	router := chi.NewRouter()
	router.Delete("/menu/{itemId}", MenuDelete(svc, testLogger()))

	r := httptest.NewRequest(http.MethodDelete, "/menu/"+uuid.NewString(), nil)
	r = identityContext(r, enums.EmployeeRoleManager)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, deleted)
}

func TestMenuListFiltersCategory(t *testing.T) {
	svc := &stubMenuService{
		listFn: func(_ context.Context, _ uuid.UUID, filters menu.ListFilters) ([]models.MenuItem, error) {
			require.NotNil(t, filters.Category)
			require.Equal(t, enums.MenuCategoryCocktail, *filters.Category)
			require.True(t, filters.AvailableOnly)
			return []models.MenuItem{{Name: "Negroni", Category: enums.MenuCategoryCocktail}}, nil
		},
	}

	r := httptest.NewRequest(http.MethodGet, "/menu?category=cocktail&available=true", nil)
	r = identityContext(r, enums.EmployeeRoleBartender)
	w := httptest.NewRecorder()
	MenuList(svc, testLogger())(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data struct {
			Items []menu.MenuItemDTO `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Items, 1)
	require.Equal(t, "Negroni", envelope.Data.Items[0].Name)
}

func TestMenuListRejectsUnknownCategory(t *testing.T) {
	svc := &stubMenuService{
		listFn: func(context.Context, uuid.UUID, menu.ListFilters) ([]models.MenuItem, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	r := httptest.NewRequest(http.MethodGet, "/menu?category=sushi", nil)
	r = identityContext(r, enums.EmployeeRoleServer)
	w := httptest.NewRecorder()
	MenuList(svc, testLogger())(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(w.Body.Bytes()), &envelope))
	require.Equal(t, string(pkgerrors.CodeValidation), envelope.Error.Code)
}
