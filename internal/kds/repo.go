package kds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ticket board repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindTicketForOrg(ctx context.Context, organizationID, ticketID uuid.UUID) (*models.KitchenTicket, error) {
	var ticket models.KitchenTicket
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = kitchen_tickets.order_id").
		Where("orders.organization_id = ? AND kitchen_tickets.id = ?", organizationID, ticketID).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListTickets(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.KitchenTicket, error) {
	query := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = kitchen_tickets.order_id").
		Where("orders.organization_id = ?", organizationID)

	if filters.Station != nil {
		query = query.Where("kitchen_tickets.station = ?", filters.Station.String())
	}
	if filters.Status != nil {
		query = query.Where("kitchen_tickets.status = ?", filters.Status.String())
	}
	if filters.Active {
		query = query.Where("kitchen_tickets.status <> ?", enums.TicketStatusServed.String())
	}

	var tickets []models.KitchenTicket
	err := query.
		Order("kitchen_tickets.ticket_number ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) UpdateTicket(ctx context.Context, ticketID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.KitchenTicket{}).
		Where("id = ?", ticketID).
		Updates(updates).Error
}

func (r *repository) ListLines(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderLineItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var lines []models.OrderLineItem
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", status.String()).Error
}
