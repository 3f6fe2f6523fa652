package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// Employee is a staff member who can authenticate against the POS.
type Employee struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID          `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string             `gorm:"column:name;not null"`
	Email          string             `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash   string             `gorm:"column:password_hash;not null"`
	Role           enums.EmployeeRole `gorm:"column:role;type:text;not null;default:'server'"`
	Active         bool               `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
