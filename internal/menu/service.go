package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/barbackhq/pos-backend/pkg/db/models"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a menu service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, organizationID uuid.UUID, input CreateInput) (*models.MenuItem, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	item := &models.MenuItem{
		OrganizationID:  organizationID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		Category:        input.Category,
		Price:           input.Price,
		PrepTimeMinutes: input.PrepTimeMinutes,
		Available:       available,
		Modifications:   input.Modifications,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, item)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating menu item")
		}
		item = created
		if len(input.RecipeComponents) > 0 {
			components := buildComponents(item.ID, input.RecipeComponents)
			if err := repo.ReplaceRecipeComponents(ctx, item.ID, components); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving recipe components")
			}
			item.RecipeComponents = components
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, organizationID, itemID uuid.UUID) (*models.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, organizationID, itemID)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading menu item")
	}
	return item, nil
}

func (s *service) List(ctx context.Context, organizationID uuid.UUID, filters ListFilters) ([]models.MenuItem, error) {
	filters.Query = strings.ToLower(strings.TrimSpace(filters.Query))
	items, err := s.repo.List(ctx, organizationID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing menu items")
	}
	return items, nil
}

func (s *service) Update(ctx context.Context, organizationID, itemID uuid.UUID, input UpdateInput) (*models.MenuItem, error) {
	if _, err := s.Get(ctx, organizationID, itemID); err != nil {
		return nil, err
	}

	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(updates) > 0 {
			if err := repo.Update(ctx, organizationID, itemID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating menu item")
			}
		}
		if input.RecipeComponents != nil {
			components := buildComponents(itemID, input.RecipeComponents)
			if err := repo.ReplaceRecipeComponents(ctx, itemID, components); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving recipe components")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, organizationID, itemID)
}

func (s *service) SetAvailability(ctx context.Context, organizationID, itemID uuid.UUID, available bool) (*models.MenuItem, error) {
	if _, err := s.Get(ctx, organizationID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, organizationID, itemID, map[string]any{"available": available}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating availability")
	}
	return s.Get(ctx, organizationID, itemID)
}

func (s *service) Delete(ctx context.Context, organizationID, itemID uuid.UUID) error {
	if _, err := s.Get(ctx, organizationID, itemID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, organizationID, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting menu item")
	}
	return nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "menu item name is required")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid menu category")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.PrepTimeMinutes < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "prep time must not be negative")
	}
	for _, component := range input.RecipeComponents {
		if component.InventoryItemID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "recipe component inventory item is required")
		}
		if !component.QuantityPerUnit.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "recipe component quantity must be positive")
		}
	}
	return nil
}

func buildUpdates(input UpdateInput) (map[string]any, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item name is required")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Category != nil {
		if !input.Category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid menu category")
		}
		updates["category"] = input.Category.String()
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *input.Price
	}
	if input.PrepTimeMinutes != nil {
		if *input.PrepTimeMinutes < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "prep time must not be negative")
		}
		updates["prep_time_minutes"] = *input.PrepTimeMinutes
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if input.Modifications != nil {
		updates["modifications"] = types.StringList(input.Modifications)
	}
	return updates, nil
}

func buildComponents(itemID uuid.UUID, inputs []RecipeComponentInput) []models.RecipeComponent {
	components := make([]models.RecipeComponent, 0, len(inputs))
	for _, input := range inputs {
		components = append(components, models.RecipeComponent{
			MenuItemID:      itemID,
			InventoryItemID: input.InventoryItemID,
			QuantityPerUnit: input.QuantityPerUnit,
		})
	}
	return components
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
