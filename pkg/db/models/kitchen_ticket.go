package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/enums"
)

// KitchenTicket is the prep ticket shown on the kitchen or bar display.
// Ticket progress drives the owning order's status.
type KitchenTicket struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	TicketNumber int64               `gorm:"column:ticket_number;not null;uniqueIndex"`
	Station      enums.TicketStation `gorm:"column:station;type:text;not null"`
	Status       enums.TicketStatus  `gorm:"column:status;type:text;not null;default:'new'"`
	Priority     enums.OrderPriority `gorm:"column:priority;type:text;not null;default:'normal'"`
	StartedAt    *time.Time          `gorm:"column:started_at"`
	ReadyAt      *time.Time          `gorm:"column:ready_at"`
	ServedAt     *time.Time          `gorm:"column:served_at"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (k *KitchenTicket) BeforeCreate(_ *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
