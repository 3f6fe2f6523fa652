package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Location is a physical venue belonging to an organization. A location may
// override the organization's default tax rate.
type Location struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID uuid.UUID        `gorm:"column:organization_id;type:uuid;not null;index"`
	Name           string           `gorm:"column:name;not null"`
	Address        *string          `gorm:"column:address"`
	Timezone       string           `gorm:"column:timezone;not null;default:'America/New_York'"`
	TaxRate        *decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,5)"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *Location) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
