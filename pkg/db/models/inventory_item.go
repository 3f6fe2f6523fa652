package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem tracks stock on hand for one ingredient or supply.
type InventoryItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID       `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string          `gorm:"column:name;not null"`
	Unit           string          `gorm:"column:unit;not null"`
	CurrentStock   decimal.Decimal `gorm:"column:current_stock;type:numeric(12,3);not null;default:0"`
	MinStock       decimal.Decimal `gorm:"column:min_stock;type:numeric(12,3);not null;default:0"`
	MaxStock       decimal.Decimal `gorm:"column:max_stock;type:numeric(12,3);not null;default:0"`
	CostPerUnit    decimal.Decimal `gorm:"column:cost_per_unit;type:numeric(10,2);not null;default:0"`
	ExpiryDate     *time.Time      `gorm:"column:expiry_date"`
	Supplier       *string         `gorm:"column:supplier"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *InventoryItem) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
