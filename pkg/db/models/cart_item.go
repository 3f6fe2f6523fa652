package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/types"
)

// CartItem is one line in a cart. Name and price are snapshotted from the
// menu item at add time so later menu edits do not reprice open carts.
type CartItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CartID         uuid.UUID        `gorm:"column:cart_id;type:uuid;not null;index"`
	MenuItemID     uuid.UUID        `gorm:"column:menu_item_id;type:uuid;not null"`
	Name           string           `gorm:"column:name;not null"`
	UnitPrice      decimal.Decimal  `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity       int              `gorm:"column:quantity;not null"`
	Modifications  types.StringList `gorm:"column:modifications;type:jsonb;serializer:json"`
	Customizations types.StringMap  `gorm:"column:customizations;type:jsonb;serializer:json"`
	Note           *string          `gorm:"column:note"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
