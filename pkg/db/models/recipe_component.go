package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecipeComponent maps a menu item to the inventory it consumes per unit sold.
type RecipeComponent struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	MenuItemID      uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	QuantityPerUnit decimal.Decimal `gorm:"column:quantity_per_unit;type:numeric(10,3);not null"`
}

func (r *RecipeComponent) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
