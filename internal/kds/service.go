package kds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds the kitchen display service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("kds repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) ListTickets(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]Ticket, error) {
	if filters.Station != nil && !filters.Station.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid station")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket status")
	}
	tickets, err := s.repo.ListTickets(ctx, organizationID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing tickets")
	}
	return s.hydrate(ctx, tickets)
}

func (s *service) GetTicket(ctx context.Context, organizationID, ticketID uuid.UUID) (*Ticket, error) {
	ticket, err := s.repo.FindTicketForOrg(ctx, organizationID, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ticket")
	}
	hydrated, err := s.hydrate(ctx, []models.KitchenTicket{*ticket})
	if err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

// hydrate attaches each ticket's order lines so the display knows what to
// prepare.
func (s *service) hydrate(ctx context.Context, tickets []models.KitchenTicket) ([]Ticket, error) {
	orderIDs := make([]uuid.UUID, 0, len(tickets))
	for i := range tickets {
		orderIDs = append(orderIDs, tickets[i].OrderID)
	}
	lines, err := s.repo.ListLines(ctx, orderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ticket lines")
	}
	byOrder := make(map[uuid.UUID][]models.OrderLineItem, len(tickets))
	for i := range lines {
		byOrder[lines[i].OrderID] = append(byOrder[lines[i].OrderID], lines[i])
	}
	hydrated := make([]Ticket, 0, len(tickets))
	for i := range tickets {
		hydrated = append(hydrated, Ticket{
			KitchenTicket: tickets[i],
			Lines:         byOrder[tickets[i].OrderID],
		})
	}
	return hydrated, nil
}

// UpdateTicketStatus advances a ticket through the prep sequence and pulls
// the owning order's status along with it. Tickets only move forward.
func (s *service) UpdateTicketStatus(ctx context.Context, organizationID, ticketID uuid.UUID, status enums.TicketStatus) (*Ticket, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket status")
	}

	ticket, err := s.GetTicket(ctx, organizationID, ticketID)
	if err != nil {
		return nil, err
	}
	if status.Rank() <= ticket.Status.Rank() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ticket cannot move backwards").
			WithDetails(map[string]string{
				"from": ticket.Status.String(),
				"to":   status.String(),
			})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, ticket.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading owning order")
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already finalized")
		}

		now := s.now()
		updates := map[string]any{"status": status.String()}
		switch status {
		case enums.TicketStatusPreparing:
			updates["started_at"] = now
		case enums.TicketStatusReady:
			updates["ready_at"] = now
		case enums.TicketStatusServed:
			updates["served_at"] = now
		}
		if err := repo.UpdateTicket(ctx, ticket.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating ticket")
		}

		if next := status.OrderStatus(); order.Status.CanAdvanceTo(next) && next != order.Status {
			if err := repo.UpdateOrderStatus(ctx, order.ID, next); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "syncing order status")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTicket(ctx, organizationID, ticketID)
}
