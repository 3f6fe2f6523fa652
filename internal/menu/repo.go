package menu

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a menu repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.MenuItem) (*models.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, organizationID, itemID uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("RecipeComponents").
		Where("organization_id = ? AND id = ?", organizationID, itemID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByIDs(ctx context.Context, organizationID uuid.UUID, itemIDs []uuid.UUID) ([]models.MenuItem, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("RecipeComponents").
		Where("organization_id = ? AND id IN ?", organizationID, itemIDs).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.MenuItem, error) {
	query := r.db.WithContext(ctx).
		Preload("RecipeComponents").
		Where("organization_id = ?", organizationID)

	if filters.Category != nil {
		query = query.Where("category = ?", filters.Category.String())
	}
	if filters.AvailableOnly {
		query = query.Where("available = ?", true)
	}
	if filters.Query != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+filters.Query+"%")
	}

	var items []models.MenuItem
	if err := query.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, organizationID, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("organization_id = ? AND id = ?", organizationID, itemID).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, organizationID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, itemID).
		Delete(&models.MenuItem{}).Error
}

func (r *repository) ReplaceRecipeComponents(ctx context.Context, itemID uuid.UUID, components []models.RecipeComponent) error {
	if err := r.db.WithContext(ctx).
		Where("menu_item_id = ?", itemID).
		Delete(&models.RecipeComponent{}).Error; err != nil {
		return err
	}
	if len(components) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&components).Error
}
