package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

// Repository defines persistence operations for cart tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCart(ctx context.Context, cart *models.CartRecord) (*models.CartRecord, error)
	FindActiveBySession(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error)
	FindByID(ctx context.Context, organizationID, cartID uuid.UUID) (*models.CartRecord, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	UpdateCart(ctx context.Context, cartID uuid.UUID, updates map[string]any) error
}

// Service exposes cart operations keyed by the client session.
type Service interface {
	Get(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error)
	AddItem(ctx context.Context, organizationID uuid.UUID, sessionID string, input AddItemInput) (*models.CartRecord, error)
	UpdateItemQuantity(ctx context.Context, organizationID uuid.UUID, sessionID string, itemID uuid.UUID, quantity int) (*models.CartRecord, error)
	UpdateItemNote(ctx context.Context, organizationID uuid.UUID, sessionID string, itemID uuid.UUID, note *string) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, organizationID uuid.UUID, sessionID string, itemID uuid.UUID) (*models.CartRecord, error)
	Clear(ctx context.Context, organizationID uuid.UUID, sessionID string) (*models.CartRecord, error)
	MarkCheckedOut(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}
