package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is the immutable record issued when an order settles.
type Receipt struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	PaymentID       uuid.UUID       `gorm:"column:payment_id;type:uuid;not null"`
	ReceiptNumber   int64           `gorm:"column:receipt_number;not null;uniqueIndex"`
	BusinessName    string          `gorm:"column:business_name;not null"`
	BusinessAddress string          `gorm:"column:business_address;not null"`
	Subtotal        decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax             decimal.Decimal `gorm:"column:tax;type:numeric(10,2);not null"`
	Tip             decimal.Decimal `gorm:"column:tip;type:numeric(10,2);not null"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`
	IssuedAt        time.Time       `gorm:"column:issued_at;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (r *Receipt) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
