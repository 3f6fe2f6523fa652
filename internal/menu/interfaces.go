package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// Repository defines persistence operations for menu tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error)
	FindByID(ctx context.Context, organizationID, itemID uuid.UUID) (*models.MenuItem, error)
	FindByIDs(ctx context.Context, organizationID uuid.UUID, itemIDs []uuid.UUID) ([]models.MenuItem, error)
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.MenuItem, error)
	Update(ctx context.Context, organizationID, itemID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, organizationID, itemID uuid.UUID) error
	ReplaceRecipeComponents(ctx context.Context, itemID uuid.UUID, components []models.RecipeComponent) error
}

// Service exposes menu management operations.
type Service interface {
	Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.MenuItem, error)
	Get(ctx context.Context, organizationID, itemID uuid.UUID) (*models.MenuItem, error)
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.MenuItem, error)
	Update(ctx context.Context, organizationID, itemID uuid.UUID, input UpdateInput) (*models.MenuItem, error)
	SetAvailability(ctx context.Context, organizationID, itemID uuid.UUID, available bool) (*models.MenuItem, error)
	Delete(ctx context.Context, organizationID, itemID uuid.UUID) error
}

// ListFilters narrows the menu listing.
type ListFilters struct {
	Category      *enums.MenuCategory
	AvailableOnly bool
	Query         string
}
