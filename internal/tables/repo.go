package tables

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tables repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTable(ctx context.Context, table *models.DiningTable) (*models.DiningTable, error) {
	if err := r.db.WithContext(ctx).Create(table).Error; err != nil {
		return nil, err
	}
	return table, nil
}

func (r *repository) FindTable(ctx context.Context, organizationID, tableID uuid.UUID) (*models.DiningTable, error) {
	var table models.DiningTable
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, tableID).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *repository) ListTables(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) ([]models.DiningTable, error) {
	query := r.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}
	var tables []models.DiningTable
	if err := query.Order("number ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *repository) UpdateTable(ctx context.Context, tableID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.DiningTable{}).
		Where("id = ?", tableID).
		Updates(updates).Error
}

func (r *repository) DeleteTable(ctx context.Context, organizationID, tableID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, tableID).
		Delete(&models.DiningTable{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateLocation(ctx context.Context, location *models.Location) (*models.Location, error) {
	if err := r.db.WithContext(ctx).Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

func (r *repository) FindLocation(ctx context.Context, organizationID, locationID uuid.UUID) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, locationID).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) ListLocations(ctx context.Context, organizationID uuid.UUID) ([]models.Location, error) {
	var locations []models.Location
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}
