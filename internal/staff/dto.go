package staff

import (
	"time"

	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// LoginInput carries the credentials posted to /auth/login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the issued token plus the authenticated employee.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Employee  *EmployeeDTO `json:"employee"`
}

// EmployeeDTO exposes safe staff data in API responses; the password hash
// never leaves the service layer.
type EmployeeDTO struct {
	ID             uuid.UUID          `json:"id"`
	OrganizationID uuid.UUID          `json:"organization_id"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	Role           enums.EmployeeRole `json:"role"`
	Active         bool               `json:"active"`
	CreatedAt      time.Time          `json:"created_at"`
}

// FromModel maps the persisted employee into a DTO.
func FromModel(m *models.Employee) *EmployeeDTO {
	if m == nil {
		return nil
	}
	return &EmployeeDTO{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Email:          m.Email,
		Role:           m.Role,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
	}
}

// FromModels maps a list of employees into DTOs.
func FromModels(employees []models.Employee) []EmployeeDTO {
	dtos := make([]EmployeeDTO, 0, len(employees))
	for i := range employees {
		dtos = append(dtos, *FromModel(&employees[i]))
	}
	return dtos
}

// CreateInput registers a new employee.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     enums.EmployeeRole
}
