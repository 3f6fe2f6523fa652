package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// Repository defines persistence operations for inventory tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, organizationID, itemID uuid.UUID) (*models.InventoryItem, error)
	FindByIDs(ctx context.Context, organizationID uuid.UUID, itemIDs []uuid.UUID) ([]models.InventoryItem, error)
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.InventoryItem, error)
	Update(ctx context.Context, organizationID, itemID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, organizationID, itemID uuid.UUID) error
	SetStock(ctx context.Context, itemID uuid.UUID, stock decimal.Decimal) error
	CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error
	ListTransactions(ctx context.Context, organizationID uuid.UUID, itemID *uuid.UUID, limit int) ([]models.InventoryTransaction, error)
	ReplaceAlerts(ctx context.Context, organizationID uuid.UUID, alerts []models.InventoryAlert) error
	ListAlerts(ctx context.Context, organizationID uuid.UUID) ([]models.InventoryAlert, error)
	ListOrganizations(ctx context.Context) ([]uuid.UUID, error)
}

// Service exposes inventory management operations.
type Service interface {
	Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.InventoryItem, error)
	Get(ctx context.Context, organizationID, itemID uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.InventoryItem, error)
	Update(ctx context.Context, organizationID, itemID uuid.UUID, input UpdateInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, organizationID, itemID uuid.UUID) error
	Adjust(ctx context.Context, organizationID uuid.UUID, input AdjustInput) (*models.InventoryItem, error)
	ListTransactions(ctx context.Context, organizationID uuid.UUID, itemID *uuid.UUID, limit int) ([]models.InventoryTransaction, error)
	ListAlerts(ctx context.Context, organizationID uuid.UUID) ([]models.InventoryAlert, error)
	RecomputeAlerts(ctx context.Context, organizationID uuid.UUID) ([]models.InventoryAlert, error)
	Valuation(ctx context.Context, organizationID uuid.UUID) (*Valuation, error)
	DeductForSale(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID, deductions []SaleDeduction, reference string, employeeID *uuid.UUID) error
}

// ListFilters narrows the inventory listing. ExpiringWithinDays is the
// caller-facing knob; the service translates it into ExpiringBefore for the
// repository.
type ListFilters struct {
	Query              string
	LowStock           bool
	ExpiringWithinDays int
	ExpiringBefore     *time.Time
}

// SaleDeduction is one inventory draw produced by settling an order.
type SaleDeduction struct {
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
}

// AdjustInput captures a manual stock movement.
type AdjustInput struct {
	InventoryItemID uuid.UUID
	Type            enums.InventoryTransactionType
	Quantity        decimal.Decimal
	Reason          *string
	EmployeeID      *uuid.UUID
}
