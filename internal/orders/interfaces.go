package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/internal/inventory"
	"github.com/barbackhq/pos-backend/internal/payments"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateLineItems(ctx context.Context, items []models.OrderLineItem) error
	CreateTicket(ctx context.Context, ticket *models.KitchenTicket) error
	FindByID(ctx context.Context, organizationID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.Order, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}

// CartReader loads and converts the session cart during checkout.
type CartReader interface {
	Get(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error)
	MarkCheckedOut(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

// MenuReader resolves menu items for line snapshots and recipe deductions.
type MenuReader interface {
	FindByIDs(ctx context.Context, organizationID uuid.UUID, itemIDs []uuid.UUID) ([]models.MenuItem, error)
}

// InventoryDeductor draws down stock when an order settles.
type InventoryDeductor interface {
	DeductForSale(ctx context.Context, tx *gorm.DB, organizationID uuid.UUID, deductions []inventory.SaleDeduction, reference string, employeeID *uuid.UUID) error
}

// PaymentRecorder persists payment and receipt rows inside the close
// transaction.
type PaymentRecorder interface {
	WithTx(tx *gorm.DB) payments.Repository
}

// Service exposes the order lifecycle.
type Service interface {
	Checkout(ctx context.Context, organizationID uuid.UUID, input CheckoutInput) (*models.Order, error)
	Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.Order, error)
	AddItems(ctx context.Context, organizationID, orderID uuid.UUID, items []LineInput) (*models.Order, error)
	Get(ctx context.Context, organizationID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, organizationID, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Cancel(ctx context.Context, organizationID, orderID uuid.UUID, reason *string) (*models.Order, error)
	Close(ctx context.Context, organizationID, orderID uuid.UUID, input CloseInput) (*CloseResult, error)
}
