package kds

import (
	"time"

	"github.com/google/uuid"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// TicketLineDTO is one prep line as shown on the display.
type TicketLineDTO struct {
	Name            string   `json:"name"`
	Quantity        int      `json:"quantity"`
	PrepTimeMinutes int      `json:"prep_time_minutes"`
	Modifications   []string `json:"modifications,omitempty"`
	Note            *string  `json:"note,omitempty"`
}

// TicketDTO exposes a prep ticket in API responses.
type TicketDTO struct {
	ID           uuid.UUID           `json:"id"`
	OrderID      uuid.UUID           `json:"order_id"`
	TicketNumber int64               `json:"ticket_number"`
	Station      enums.TicketStation `json:"station"`
	Status       enums.TicketStatus  `json:"status"`
	Priority     enums.OrderPriority `json:"priority"`
	Items        []TicketLineDTO     `json:"items"`
	StartedAt    *time.Time          `json:"started_at,omitempty"`
	ReadyAt      *time.Time          `json:"ready_at,omitempty"`
	ServedAt     *time.Time          `json:"served_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// FromModel maps a hydrated ticket into a DTO.
func FromModel(t *Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	items := make([]TicketLineDTO, 0, len(t.Lines))
	for i := range t.Lines {
		items = append(items, lineDTO(&t.Lines[i]))
	}
	return &TicketDTO{
		ID:           t.ID,
		OrderID:      t.OrderID,
		TicketNumber: t.TicketNumber,
		Station:      t.Station,
		Status:       t.Status,
		Priority:     t.Priority,
		Items:        items,
		StartedAt:    t.StartedAt,
		ReadyAt:      t.ReadyAt,
		ServedAt:     t.ServedAt,
		CreatedAt:    t.CreatedAt,
	}
}

// FromModels maps a list of hydrated tickets into DTOs.
func FromModels(tickets []Ticket) []TicketDTO {
	dtos := make([]TicketDTO, 0, len(tickets))
	for i := range tickets {
		dtos = append(dtos, *FromModel(&tickets[i]))
	}
	return dtos
}

func lineDTO(line *models.OrderLineItem) TicketLineDTO {
	return TicketLineDTO{
		Name:            line.Name,
		Quantity:        line.Quantity,
		PrepTimeMinutes: line.PrepTimeMinutes,
		Modifications:   line.Modifications,
		Note:            line.Note,
	}
}
