package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
	"github.com/barbackhq/pos-backend/pkg/types"
)

// MenuItem is a sellable item on the menu. Recipe components link the item
// to the inventory it consumes when sold.
type MenuItem struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID   uuid.UUID          `gorm:"column:organization_id;type:uuid;not null;index"`
	Name             string             `gorm:"column:name;not null"`
	Description      *string            `gorm:"column:description"`
	Category         enums.MenuCategory `gorm:"column:category;type:text;not null"`
	Price            decimal.Decimal    `gorm:"column:price;type:numeric(10,2);not null"`
	PrepTimeMinutes  int                `gorm:"column:prep_time_minutes;not null;default:0"`
	Available        bool               `gorm:"column:available;not null;default:true"`
	Modifications    types.StringList   `gorm:"column:modifications;type:jsonb;serializer:json"`
	RecipeComponents []RecipeComponent  `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *MenuItem) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
