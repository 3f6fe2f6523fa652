package menu

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	"github.com/barbackhq/pos-backend/pkg/enums"
)

// MenuItemDTO exposes menu item data in API responses.
type MenuItemDTO struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Description      *string              `json:"description,omitempty"`
	Category         enums.MenuCategory   `json:"category"`
	Price            decimal.Decimal      `json:"price"`
	PrepTimeMinutes  int                  `json:"prep_time_minutes"`
	Available        bool                 `json:"available"`
	Modifications    []string             `json:"modifications,omitempty"`
	RecipeComponents []RecipeComponentDTO `json:"recipe_components,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// RecipeComponentDTO exposes one recipe line in API responses.
type RecipeComponentDTO struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// FromModel maps the persisted menu item into a DTO.
func FromModel(m *models.MenuItem) *MenuItemDTO {
	if m == nil {
		return nil
	}
	dto := &MenuItemDTO{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		Category:        m.Category,
		Price:           m.Price,
		PrepTimeMinutes: m.PrepTimeMinutes,
		Available:       m.Available,
		Modifications:   m.Modifications,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for i := range m.RecipeComponents {
		dto.RecipeComponents = append(dto.RecipeComponents, RecipeComponentDTO{
			InventoryItemID: m.RecipeComponents[i].InventoryItemID,
			QuantityPerUnit: m.RecipeComponents[i].QuantityPerUnit,
		})
	}
	return dto
}

// FromModels maps a list of menu items into DTOs.
func FromModels(items []models.MenuItem) []MenuItemDTO {
	dtos := make([]MenuItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *FromModel(&items[i]))
	}
	return dtos
}

// RecipeComponentInput links an inventory item to the menu item recipe.
type RecipeComponentInput struct {
	InventoryItemID uuid.UUID
	QuantityPerUnit decimal.Decimal
}

// CreateInput carries everything needed to create a menu item.
type CreateInput struct {
	Name             string
	Description      *string
	Category         enums.MenuCategory
	Price            decimal.Decimal
	PrepTimeMinutes  int
	Available        *bool
	Modifications    []string
	RecipeComponents []RecipeComponentInput
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name             *string
	Description      *string
	Category         *enums.MenuCategory
	Price            *decimal.Decimal
	PrepTimeMinutes  *int
	Available        *bool
	Modifications    []string
	RecipeComponents []RecipeComponentInput
}
