package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

type contextKey string

const (
	ctxEmployeeID     contextKey = "employee_id"
	ctxOrganizationID contextKey = "organization_id"
	ctxRole           contextKey = "role"
	ctxRequestID      contextKey = "request_id"
)

// WithIdentity seeds the request context with the authenticated principal.
func WithIdentity(ctx context.Context, employeeID, organizationID uuid.UUID, role enums.EmployeeRole) context.Context {
	ctx = context.WithValue(ctx, ctxEmployeeID, employeeID)
	ctx = context.WithValue(ctx, ctxOrganizationID, organizationID)
	ctx = context.WithValue(ctx, ctxRole, role)
	return ctx
}

// EmployeeIDFromContext returns the authenticated employee id.
func EmployeeIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxEmployeeID).(uuid.UUID)
	return id, ok
}

// OrganizationIDFromContext returns the tenant the request is scoped to.
func OrganizationIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxOrganizationID).(uuid.UUID)
	return id, ok
}

// RoleFromContext returns the authenticated employee role.
func RoleFromContext(ctx context.Context) (enums.EmployeeRole, bool) {
	role, ok := ctx.Value(ctxRole).(enums.EmployeeRole)
	return role, ok
}

// RequestIDFromContext returns the request correlation id.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxRequestID).(string)
	return id, ok
}

func withRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestID, requestID)
}
