package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// InventoryTransaction is an append-only record of one stock movement.
// Quantity is the signed delta applied to the item's stock.
type InventoryTransaction struct {
	ID              uuid.UUID                      `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID  uuid.UUID                      `gorm:"column:organization_id;type:uuid;not null;index"`
	InventoryItemID uuid.UUID                      `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	Type            enums.InventoryTransactionType `gorm:"column:type;type:text;not null"`
	Quantity        decimal.Decimal                `gorm:"column:quantity;type:numeric(12,3);not null"`
	StockAfter      decimal.Decimal                `gorm:"column:stock_after;type:numeric(12,3);not null"`
	Reason          *string                        `gorm:"column:reason"`
	Reference       *string                        `gorm:"column:reference"`
	EmployeeID      *uuid.UUID                     `gorm:"column:employee_id;type:uuid"`
	CreatedAt       time.Time                      `gorm:"column:created_at;autoCreateTime"`
}

func (t *InventoryTransaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
