package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// CartRecord is the server-side cart a staff member builds before checkout.
// One active cart exists per session key.
type CartRecord struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID        `gorm:"column:organization_id;type:uuid;not null;index"`
	SessionID      string           `gorm:"column:session_id;not null;index"`
	Status         enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	EmployeeID     *uuid.UUID       `gorm:"column:employee_id;type:uuid"`
	Items          []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartRecord) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
