package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// InventoryAlert is one row of the materialized alert set. The whole set for
// an organization is rebuilt whenever inventory changes.
type InventoryAlert struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID  uuid.UUID           `gorm:"column:organization_id;type:uuid;not null;index"`
	InventoryItemID uuid.UUID           `gorm:"column:inventory_item_id;type:uuid;not null;index"`
	Type            enums.AlertType     `gorm:"column:type;type:text;not null"`
	Severity        enums.AlertSeverity `gorm:"column:severity;type:text;not null"`
	Message         string              `gorm:"column:message;not null"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (a *InventoryAlert) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
