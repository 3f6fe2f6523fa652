package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, organizationID, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByIDs(ctx context.Context, organizationID uuid.UUID, itemIDs []uuid.UUID) ([]models.InventoryItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", organizationID, itemIDs).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.InventoryItem, error) {
	query := r.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if filters.Query != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+filters.Query+"%")
	}
	if filters.LowStock {
		query = query.Where("current_stock <= min_stock")
	}
	if filters.ExpiringBefore != nil {
		query = query.Where("expiry_date IS NOT NULL AND expiry_date <= ?", *filters.ExpiringBefore)
	}

	var items []models.InventoryItem
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, organizationID, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("organization_id = ? AND id = ?", organizationID, itemID).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, organizationID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, itemID).
		Delete(&models.InventoryItem{}).Error
}

func (r *repository) SetStock(ctx context.Context, itemID uuid.UUID, stock decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Update("current_stock", stock).Error
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) ListTransactions(ctx context.Context, organizationID uuid.UUID, itemID *uuid.UUID, limit int) ([]models.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if itemID != nil {
		query = query.Where("inventory_item_id = ?", *itemID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var txns []models.InventoryTransaction
	if err := query.Order("created_at DESC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *repository) ReplaceAlerts(ctx context.Context, organizationID uuid.UUID, alerts []models.InventoryAlert) error {
	if err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Delete(&models.InventoryAlert{}).Error; err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&alerts).Error
}

func (r *repository) ListOrganizations(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Distinct("organization_id").
		Pluck("organization_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) ListAlerts(ctx context.Context, organizationID uuid.UUID) ([]models.InventoryAlert, error) {
	var alerts []models.InventoryAlert
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("severity DESC, created_at ASC").
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}
