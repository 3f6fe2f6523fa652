package kds

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
)

type stubKDSRepo struct {
	tickets       map[uuid.UUID]*models.KitchenTicket
	orders        map[uuid.UUID]*models.Order
	lines         map[uuid.UUID][]models.OrderLineItem
	orgID         uuid.UUID
	ticketUpdates map[string]any
	orderStatus   *enums.OrderStatus
}

func newStubKDSRepo(orgID uuid.UUID) *stubKDSRepo {
	return &stubKDSRepo{
		tickets: map[uuid.UUID]*models.KitchenTicket{},
		orders:  map[uuid.UUID]*models.Order{},
		lines:   map[uuid.UUID][]models.OrderLineItem{},
		orgID:   orgID,
	}
}

func (s *stubKDSRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubKDSRepo) FindTicketForOrg(ctx context.Context, organizationID, ticketID uuid.UUID) (*models.KitchenTicket, error) {
	ticket, ok := s.tickets[ticketID]
	if !ok || organizationID != s.orgID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (s *stubKDSRepo) ListTickets(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.KitchenTicket, error) {
	var found []models.KitchenTicket
	for _, ticket := range s.tickets {
		if filters.Station != nil && ticket.Station != *filters.Station {
			continue
		}
		if filters.Active && ticket.Status == enums.TicketStatusServed {
			continue
		}
		found = append(found, *ticket)
	}
	return found, nil
}

func (s *stubKDSRepo) UpdateTicket(ctx context.Context, ticketID uuid.UUID, updates map[string]any) error {
	ticket, ok := s.tickets[ticketID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.ticketUpdates = updates
	if v, ok := updates["status"].(string); ok {
		ticket.Status = enums.TicketStatus(v)
	}
	return nil
}

func (s *stubKDSRepo) ListLines(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderLineItem, error) {
	var found []models.OrderLineItem
	for _, orderID := range orderIDs {
		found = append(found, s.lines[orderID]...)
	}
	return found, nil
}

func (s *stubKDSRepo) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubKDSRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	s.orderStatus = &status
	if order, ok := s.orders[orderID]; ok {
		order.Status = status
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func seedTicket(repo *stubKDSRepo, ticketStatus enums.TicketStatus, orderStatus enums.OrderStatus) *models.KitchenTicket {
	order := &models.Order{
		ID:             uuid.New(),
		OrganizationID: repo.orgID,
		Status:         orderStatus,
	}
	repo.orders[order.ID] = order

	ticket := &models.KitchenTicket{
		ID:           uuid.New(),
		OrderID:      order.ID,
		TicketNumber: 5001,
		Station:      enums.TicketStationKitchen,
		Status:       ticketStatus,
	}
	repo.tickets[ticket.ID] = ticket
	return ticket
}

func TestTicketAdvanceSyncsOrder(t *testing.T) {
	orgID := uuid.New()
	repo := newStubKDSRepo(orgID)
	ticket := seedTicket(repo, enums.TicketStatusNew, enums.OrderStatusOpen)

	svc, err := NewService(repo, stubTxRunner{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	updated, err := svc.UpdateTicketStatus(context.Background(), orgID, ticket.ID, enums.TicketStatusPreparing)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.TicketStatusPreparing {
		t.Fatalf("expected preparing got %s", updated.Status)
	}
	if _, ok := repo.ticketUpdates["started_at"]; !ok {
		t.Fatal("expected started_at stamp")
	}
	if repo.orderStatus == nil || *repo.orderStatus != enums.OrderStatusPreparing {
		t.Fatalf("expected order preparing got %v", repo.orderStatus)
	}
}

func TestTicketServedStampsAndSyncs(t *testing.T) {
	orgID := uuid.New()
	repo := newStubKDSRepo(orgID)
	ticket := seedTicket(repo, enums.TicketStatusReady, enums.OrderStatusReady)

	svc, _ := NewService(repo, stubTxRunner{})

	_, err := svc.UpdateTicketStatus(context.Background(), orgID, ticket.ID, enums.TicketStatusServed)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if _, ok := repo.ticketUpdates["served_at"]; !ok {
		t.Fatal("expected served_at stamp")
	}
	if repo.orderStatus == nil || *repo.orderStatus != enums.OrderStatusServed {
		t.Fatalf("expected order served got %v", repo.orderStatus)
	}
}

func TestTicketCannotMoveBackwards(t *testing.T) {
	orgID := uuid.New()
	repo := newStubKDSRepo(orgID)
	ticket := seedTicket(repo, enums.TicketStatusReady, enums.OrderStatusReady)

	svc, _ := NewService(repo, stubTxRunner{})

	_, err := svc.UpdateTicketStatus(context.Background(), orgID, ticket.ID, enums.TicketStatusPreparing)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestTicketOnFinalizedOrderRejected(t *testing.T) {
	orgID := uuid.New()
	repo := newStubKDSRepo(orgID)
	ticket := seedTicket(repo, enums.TicketStatusNew, enums.OrderStatusCancelled)

	svc, _ := NewService(repo, stubTxRunner{})

	_, err := svc.UpdateTicketStatus(context.Background(), orgID, ticket.ID, enums.TicketStatusPreparing)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestTicketWrongOrganization(t *testing.T) {
	repo := newStubKDSRepo(uuid.New())
	ticket := seedTicket(repo, enums.TicketStatusNew, enums.OrderStatusOpen)

	svc, _ := NewService(repo, stubTxRunner{})

	_, err := svc.UpdateTicketStatus(context.Background(), uuid.New(), ticket.ID, enums.TicketStatusPreparing)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestListActiveFiltersServed(t *testing.T) {
	orgID := uuid.New()
	repo := newStubKDSRepo(orgID)
	seedTicket(repo, enums.TicketStatusServed, enums.OrderStatusServed)
	seedTicket(repo, enums.TicketStatusPreparing, enums.OrderStatusPreparing)

	svc, _ := NewService(repo, stubTxRunner{})

	tickets, err := svc.ListTickets(context.Background(), orgID, ListFilters{Active: true})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(tickets) != 1 || tickets[0].Status != enums.TicketStatusPreparing {
		t.Fatalf("expected only the preparing ticket got %+v", tickets)
	}
}

func TestTicketsCarryOrderLines(t *testing.T) {
	orgID := uuid.New()
	repo := newStubKDSRepo(orgID)
	ticket := seedTicket(repo, enums.TicketStatusNew, enums.OrderStatusOpen)
	repo.lines[ticket.OrderID] = []models.OrderLineItem{
		{OrderID: ticket.OrderID, Name: "Old Fashioned", Quantity: 2, PrepTimeMinutes: 4},
		{OrderID: ticket.OrderID, Name: "Bar Nuts", Quantity: 1, PrepTimeMinutes: 1},
	}

	svc, _ := NewService(repo, stubTxRunner{})

	got, err := svc.GetTicket(context.Background(), orgID, ticket.ID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(got.Lines) != 2 {
		t.Fatalf("expected 2 lines got %d", len(got.Lines))
	}
	if got.Lines[0].Name != "Old Fashioned" || got.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected first line %+v", got.Lines[0])
	}
}
