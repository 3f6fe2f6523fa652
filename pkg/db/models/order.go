package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// Order is the core aggregate of the POS. Totals are zero until settlement,
// which computes them, captures payment, deducts inventory and closes the
// order in one transaction.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrganizationID   uuid.UUID           `gorm:"column:organization_id;type:uuid;not null;index"`
	LocationID       *uuid.UUID          `gorm:"column:location_id;type:uuid"`
	OrderNumber      int64               `gorm:"column:order_number;not null;uniqueIndex"`
	Type             enums.OrderType     `gorm:"column:type;type:text;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'open'"`
	Priority         enums.OrderPriority `gorm:"column:priority;type:text;not null;default:'normal'"`
	TableID          *uuid.UUID          `gorm:"column:table_id;type:uuid"`
	EmployeeID       uuid.UUID           `gorm:"column:employee_id;type:uuid;not null"`
	GuestCount       int                 `gorm:"column:guest_count;not null;default:1"`
	Note             *string             `gorm:"column:note"`
	TaxRate          decimal.Decimal     `gorm:"column:tax_rate;type:numeric(6,5);not null;default:0"`
	Subtotal         decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null;default:0"`
	Tax              decimal.Decimal     `gorm:"column:tax;type:numeric(10,2);not null;default:0"`
	Tip              decimal.Decimal     `gorm:"column:tip;type:numeric(10,2);not null;default:0"`
	Total            decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null;default:0"`
	EstimatedReadyAt *time.Time          `gorm:"column:estimated_ready_at"`
	ClosedAt         *time.Time          `gorm:"column:closed_at"`
	CancelledAt      *time.Time          `gorm:"column:cancelled_at"`
	CancelReason     *string             `gorm:"column:cancel_reason"`
	LineItems        []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Tickets          []KitchenTicket     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payments         []Payment           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
