package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/api/middleware"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

func organizationID(ctx context.Context) (uuid.UUID, error) {
	id, ok := middleware.OrganizationIDFromContext(ctx)
	if !ok || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing organization scope")
	}
	return id, nil
}

func employeeID(ctx context.Context) (uuid.UUID, error) {
	id, ok := middleware.EmployeeIDFromContext(ctx)
	if !ok || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing employee identity")
	}
	return id, nil
}

// requireManager gates mutations reserved for admins and managers.
func requireManager(ctx context.Context) error {
	role, ok := middleware.RoleFromContext(ctx)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing employee identity")
	}
	if !role.CanManageInventory() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "manager role required")
	}
	return nil
}
