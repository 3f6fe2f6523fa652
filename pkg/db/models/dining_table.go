package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// DiningTable is a seatable table at a location.
type DiningTable struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID         `gorm:"column:organization_id;type:uuid;not null;index"`
	LocationID     *uuid.UUID        `gorm:"column:location_id;type:uuid;index"`
	Number         int               `gorm:"column:number;not null"`
	Seats          int               `gorm:"column:seats;not null;default:2"`
	Status         enums.TableStatus `gorm:"column:status;type:text;not null;default:'available'"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName avoids the reserved word "tables".
func (DiningTable) TableName() string {
	return "dining_tables"
}

func (t *DiningTable) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
