package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/api/validators"
	"github.com/barbackhq/pos-backend/internal/menu"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
)

type recipeComponentPayload struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" validate:"required"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" validate:"required"`
}

type createMenuItemPayload struct {
	Name             string                   `json:"name" validate:"required"`
	Description      *string                  `json:"description"`
	Category         string                   `json:"category" validate:"required"`
	Price            decimal.Decimal          `json:"price" validate:"required"`
	PrepTimeMinutes  int                      `json:"prep_time_minutes"`
	Available        *bool                    `json:"available"`
	Modifications    []string                 `json:"modifications"`
	RecipeComponents []recipeComponentPayload `json:"recipe_components"`
}

type updateMenuItemPayload struct {
	Name             *string                  `json:"name"`
	Description      *string                  `json:"description"`
	Category         *string                  `json:"category"`
	Price            *decimal.Decimal         `json:"price"`
	PrepTimeMinutes  *int                     `json:"prep_time_minutes"`
	Available        *bool                    `json:"available"`
	Modifications    []string                 `json:"modifications"`
	RecipeComponents []recipeComponentPayload `json:"recipe_components"`
}

type availabilityPayload struct {
	Available *bool `json:"available" validate:"required"`
}

func recipeInputs(payload []recipeComponentPayload) []menu.RecipeComponentInput {
	if payload == nil {
		return nil
	}
	components := make([]menu.RecipeComponentInput, 0, len(payload))
	for _, c := range payload {
		components = append(components, menu.RecipeComponentInput{
			InventoryItemID: c.InventoryItemID,
			QuantityPerUnit: c.QuantityPerUnit,
		})
	}
	return components
}

// MenuCreate adds an item to the menu. Managers only.
func MenuCreate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		if err := requireManager(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createMenuItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		category, err := enums.ParseMenuCategory(payload.Category)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		created, err := svc.Create(ctx, orgID, menu.CreateInput{
			Name:             payload.Name,
			Description:      payload.Description,
			Category:         category,
			Price:            payload.Price,
			PrepTimeMinutes:  payload.PrepTimeMinutes,
			Available:        payload.Available,
			Modifications:    payload.Modifications,
			RecipeComponents: recipeInputs(payload.RecipeComponents),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, menu.FromModel(created))
	}
}

// MenuList returns the menu, optionally filtered by category or availability.
func MenuList(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filters := menu.ListFilters{
			AvailableOnly: validators.BoolQuery(r, "available"),
			Query:         strings.TrimSpace(r.URL.Query().Get("query")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, parseErr := enums.ParseMenuCategory(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid category"))
				return
			}
			filters.Category = &category
		}

		items, err := svc.List(ctx, orgID, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": menu.FromModels(items)})
	}
}

// MenuGet returns a single menu item with its recipe.
func MenuGet(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.Get(ctx, orgID, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu.FromModel(item))
	}
}

// MenuUpdate applies partial updates to a menu item. Managers only.
func MenuUpdate(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		if err := requireManager(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateMenuItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := menu.UpdateInput{
			Name:             payload.Name,
			Description:      payload.Description,
			Price:            payload.Price,
			PrepTimeMinutes:  payload.PrepTimeMinutes,
			Available:        payload.Available,
			Modifications:    payload.Modifications,
			RecipeComponents: recipeInputs(payload.RecipeComponents),
		}
		if payload.Category != nil {
			category, parseErr := enums.ParseMenuCategory(*payload.Category)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid category"))
				return
			}
			input.Category = &category
		}

		updated, err := svc.Update(ctx, orgID, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu.FromModel(updated))
	}
}

// MenuSetAvailability flips the 86 switch on an item.
func MenuSetAvailability(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload availabilityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.SetAvailability(ctx, orgID, id, *payload.Available)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, menu.FromModel(updated))
	}
}

// MenuDelete removes an item from the menu. Managers only.
func MenuDelete(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}
		if err := requireManager(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, orgID, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
