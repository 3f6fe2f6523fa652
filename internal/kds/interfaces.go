package kds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// Repository defines persistence operations for the ticket board. Tickets are
// scoped to an organization through their owning order.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindTicketForOrg(ctx context.Context, organizationID, ticketID uuid.UUID) (*models.KitchenTicket, error)
	ListTickets(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.KitchenTicket, error)
	UpdateTicket(ctx context.Context, ticketID uuid.UUID, updates map[string]any) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListLines(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderLineItem, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
}

// Ticket couples a persisted ticket with its order's line snapshot, so the
// display can show what to prepare without denormalizing lines onto the
// ticket row.
type Ticket struct {
	models.KitchenTicket
	Lines []models.OrderLineItem
}

// ListFilters narrows the ticket board.
type ListFilters struct {
	Station *enums.TicketStation
	Status  *enums.TicketStatus
	Active  bool
}

// Service exposes the kitchen display board.
type Service interface {
	ListTickets(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]Ticket, error)
	GetTicket(ctx context.Context, organizationID, ticketID uuid.UUID) (*Ticket, error)
	UpdateTicketStatus(ctx context.Context, organizationID, ticketID uuid.UUID, status enums.TicketStatus) (*Ticket, error)
}
