package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/internal/kds"
	"github.com/barbackhq/pos-backend/internal/payments"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// CheckoutInput converts the session cart into an order.
type CheckoutInput struct {
	SessionID  string
	Type       enums.OrderType
	Priority   *enums.OrderPriority
	TableID    *uuid.UUID
	LocationID *uuid.UUID
	GuestCount int
	Note       *string
	EmployeeID uuid.UUID
}

// LineInput adds a menu item directly to an order, bypassing the cart.
type LineInput struct {
	MenuItemID     uuid.UUID
	Quantity       int
	Modifications  []string
	Customizations map[string]string
	Note           *string
}

// CreateInput opens an order with inline line items.
type CreateInput struct {
	Type       enums.OrderType
	Priority   *enums.OrderPriority
	TableID    *uuid.UUID
	LocationID *uuid.UUID
	GuestCount int
	Note       *string
	EmployeeID uuid.UUID
	Items      []LineInput
}

// CloseInput settles an order and closes it out. TaxRate, when set,
// overrides the rate captured at order creation.
type CloseInput struct {
	Tip     decimal.Decimal
	TaxRate *decimal.Decimal
	Payment payments.SettleRequest
}

// CloseResult bundles everything produced by a successful settlement.
type CloseResult struct {
	Order   *models.Order
	Payment *models.Payment
	Receipt *models.Receipt
}

// OrderDTO exposes an order with its lines, tickets and payments.
type OrderDTO struct {
	ID               uuid.UUID             `json:"id"`
	OrderNumber      int64                 `json:"order_number"`
	LocationID       *uuid.UUID            `json:"location_id,omitempty"`
	Type             enums.OrderType       `json:"type"`
	Status           enums.OrderStatus     `json:"status"`
	Priority         enums.OrderPriority   `json:"priority"`
	TableID          *uuid.UUID            `json:"table_id,omitempty"`
	EmployeeID       uuid.UUID             `json:"employee_id"`
	GuestCount       int                   `json:"guest_count"`
	Note             *string               `json:"note,omitempty"`
	TaxRate          decimal.Decimal       `json:"tax_rate"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Tax              decimal.Decimal       `json:"tax"`
	Tip              decimal.Decimal       `json:"tip"`
	Total            decimal.Decimal       `json:"total"`
	EstimatedReadyAt *time.Time            `json:"estimated_ready_at,omitempty"`
	ClosedAt         *time.Time            `json:"closed_at,omitempty"`
	CancelledAt      *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason     *string               `json:"cancel_reason,omitempty"`
	LineItems        []LineItemDTO         `json:"line_items"`
	Tickets          []kds.TicketDTO       `json:"tickets,omitempty"`
	Payments         []payments.PaymentDTO `json:"payments,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// LineItemDTO exposes one order line snapshot.
type LineItemDTO struct {
	ID              uuid.UUID          `json:"id"`
	MenuItemID      uuid.UUID          `json:"menu_item_id"`
	Name            string             `json:"name"`
	Category        enums.MenuCategory `json:"category"`
	UnitPrice       decimal.Decimal    `json:"unit_price"`
	Quantity        int                `json:"quantity"`
	LineTotal       decimal.Decimal    `json:"line_total"`
	PrepTimeMinutes int                `json:"prep_time_minutes"`
	Modifications   []string           `json:"modifications,omitempty"`
	Customizations  map[string]string  `json:"customizations,omitempty"`
	Note            *string            `json:"note,omitempty"`
}

// CloseResultDTO is the settlement response body.
type CloseResultDTO struct {
	Order   *OrderDTO            `json:"order"`
	Payment *payments.PaymentDTO `json:"payment"`
	Receipt *payments.ReceiptDTO `json:"receipt"`
}

// FromModel maps the persisted order into a DTO.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:               m.ID,
		OrderNumber:      m.OrderNumber,
		LocationID:       m.LocationID,
		Type:             m.Type,
		Status:           m.Status,
		Priority:         m.Priority,
		TableID:          m.TableID,
		EmployeeID:       m.EmployeeID,
		GuestCount:       m.GuestCount,
		Note:             m.Note,
		TaxRate:          m.TaxRate,
		Subtotal:         m.Subtotal,
		Tax:              m.Tax,
		Tip:              m.Tip,
		Total:            m.Total,
		EstimatedReadyAt: m.EstimatedReadyAt,
		ClosedAt:         m.ClosedAt,
		CancelledAt:      m.CancelledAt,
		CancelReason:     m.CancelReason,
		LineItems:        make([]LineItemDTO, 0, len(m.LineItems)),
		Tickets:          ticketDTOs(m),
		Payments:         payments.FromModels(m.Payments),
		CreatedAt:        m.CreatedAt,
	}
	for i := range m.LineItems {
		li := &m.LineItems[i]
		dto.LineItems = append(dto.LineItems, LineItemDTO{
			ID:              li.ID,
			MenuItemID:      li.MenuItemID,
			Name:            li.Name,
			Category:        li.Category,
			UnitPrice:       li.UnitPrice,
			Quantity:        li.Quantity,
			LineTotal:       li.LineTotal,
			PrepTimeMinutes: li.PrepTimeMinutes,
			Modifications:   li.Modifications,
			Customizations:  li.Customizations,
			Note:            li.Note,
		})
	}
	return dto
}

// ticketDTOs maps an order's tickets, hydrating each with the order's own
// line snapshot.
func ticketDTOs(m *models.Order) []kds.TicketDTO {
	tickets := make([]kds.Ticket, 0, len(m.Tickets))
	for i := range m.Tickets {
		tickets = append(tickets, kds.Ticket{
			KitchenTicket: m.Tickets[i],
			Lines:         m.LineItems,
		})
	}
	return kds.FromModels(tickets)
}

// FromModels maps a list of orders into DTOs.
func FromModels(orders []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *FromModel(&orders[i]))
	}
	return dtos
}

// CloseResultToDTO maps the settlement bundle into its response shape.
func CloseResultToDTO(result *CloseResult) *CloseResultDTO {
	if result == nil {
		return nil
	}
	return &CloseResultDTO{
		Order:   FromModel(result.Order),
		Payment: payments.FromModel(result.Payment),
		Receipt: payments.ReceiptFromModel(result.Receipt),
	}
}

// ListFilters narrows the order listing.
type ListFilters struct {
	Status   *enums.OrderStatus
	Type     *enums.OrderType
	TableID  *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}
