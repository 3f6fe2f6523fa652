package tables

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// Repository defines persistence operations for dining tables and locations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTable(ctx context.Context, table *models.DiningTable) (*models.DiningTable, error)
	FindTable(ctx context.Context, organizationID, tableID uuid.UUID) (*models.DiningTable, error)
	ListTables(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) ([]models.DiningTable, error)
	UpdateTable(ctx context.Context, tableID uuid.UUID, updates map[string]any) error
	DeleteTable(ctx context.Context, organizationID, tableID uuid.UUID) error
	CreateLocation(ctx context.Context, location *models.Location) (*models.Location, error)
	FindLocation(ctx context.Context, organizationID, locationID uuid.UUID) (*models.Location, error)
	ListLocations(ctx context.Context, organizationID uuid.UUID) ([]models.Location, error)
}

// Service exposes table and location management. RateFor feeds the order
// workflow its effective tax rate.
type Service interface {
	CreateTable(ctx context.Context, organizationID uuid.UUID, input CreateTableInput) (*models.DiningTable, error)
	GetTable(ctx context.Context, organizationID, tableID uuid.UUID) (*models.DiningTable, error)
	ListTables(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) ([]models.DiningTable, error)
	SetTableStatus(ctx context.Context, organizationID, tableID uuid.UUID, status enums.TableStatus) (*models.DiningTable, error)
	DeleteTable(ctx context.Context, organizationID, tableID uuid.UUID) error
	CreateLocation(ctx context.Context, organizationID uuid.UUID, input CreateLocationInput) (*models.Location, error)
	ListLocations(ctx context.Context, organizationID uuid.UUID) ([]models.Location, error)
	RateFor(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) decimal.Decimal
}
