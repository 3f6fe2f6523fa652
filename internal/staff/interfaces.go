package staff

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

// Repository defines persistence operations for employees.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	FindByID(ctx context.Context, organizationID, employeeID uuid.UUID) (*models.Employee, error)
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	List(ctx context.Context, organizationID uuid.UUID) ([]models.Employee, error)
	Update(ctx context.Context, employeeID uuid.UUID, updates map[string]any) error
}

// Service exposes staff management and login.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.Employee, error)
	Get(ctx context.Context, organizationID, employeeID uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, organizationID uuid.UUID) ([]models.Employee, error)
	Deactivate(ctx context.Context, organizationID, employeeID uuid.UUID) error
}
