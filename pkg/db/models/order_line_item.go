package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
	"github.com/barbackhq/pos-backend/pkg/types"
)

// OrderLineItem is a frozen snapshot of a cart line at checkout time.
type OrderLineItem struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID      uuid.UUID          `gorm:"column:menu_item_id;type:uuid;not null"`
	Name            string             `gorm:"column:name;not null"`
	Category        enums.MenuCategory `gorm:"column:category;type:text;not null"`
	UnitPrice       decimal.Decimal    `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity        int                `gorm:"column:quantity;not null"`
	LineTotal       decimal.Decimal    `gorm:"column:line_total;type:numeric(10,2);not null"`
	PrepTimeMinutes int                `gorm:"column:prep_time_minutes;not null;default:0"`
	Modifications   types.StringList   `gorm:"column:modifications;type:jsonb;serializer:json"`
	Customizations  types.StringMap    `gorm:"column:customizations;type:jsonb;serializer:json"`
	Note            *string            `gorm:"column:note"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (o *OrderLineItem) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
