package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	EmployeeID     uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.EmployeeRole
	JTI            string
}

// AccessTokenClaims represents the typed JWT issued to POS clients.
type AccessTokenClaims struct {
	EmployeeID     uuid.UUID          `json:"employee_id"`
	OrganizationID uuid.UUID          `json:"organization_id"`
	Role           enums.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}
