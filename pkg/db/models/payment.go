package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
	"github.com/barbackhq/pos-backend/pkg/types"
)

// Payment records one settlement attempt against an order. Split payments
// keep their legs in the Splits column; Amount always carries the full sum
// captured.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Method        enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	Status        enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	TipAmount     decimal.Decimal     `gorm:"column:tip_amount;type:numeric(10,2);not null;default:0"`
	CashTendered  *decimal.Decimal    `gorm:"column:cash_tendered;type:numeric(10,2)"`
	ChangeDue     *decimal.Decimal    `gorm:"column:change_due;type:numeric(10,2)"`
	CardLast4     *string             `gorm:"column:card_last4"`
	AuthCode      *string             `gorm:"column:auth_code"`
	Splits        types.PaymentSplits `gorm:"column:splits;type:jsonb;serializer:json"`
	FailureReason *string             `gorm:"column:failure_reason"`
	ProcessedAt   *time.Time          `gorm:"column:processed_at"`
	RefundedAt    *time.Time          `gorm:"column:refunded_at"`
	RefundReason  *string             `gorm:"column:refund_reason"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
