package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/api/validators"
	"github.com/barbackhq/pos-backend/internal/cart"
	"github.com/barbackhq/pos-backend/pkg/db/models"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
)

// TaxRater supplies the effective tax rate used for cart running totals.
type TaxRater interface {
	RateFor(ctx context.Context, organizationID uuid.UUID, locationID *uuid.UUID) decimal.Decimal
}

type addCartItemPayload struct {
	SessionID      string            `json:"session_id" validate:"required"`
	MenuItemID     uuid.UUID         `json:"menu_item_id" validate:"required"`
	Quantity       int               `json:"quantity" validate:"required,min=1"`
	Modifications  []string          `json:"modifications"`
	Customizations map[string]string `json:"customizations"`
	Note           *string           `json:"note"`
}

type updateCartItemPayload struct {
	SessionID string `json:"session_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=0"`
}

type updateCartItemNotePayload struct {
	SessionID string  `json:"session_id" validate:"required"`
	Note      *string `json:"note"`
}

func sessionIDQuery(r *http.Request) (string, error) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session_id is required").
			WithDetails(map[string]string{"session_id": "is required"})
	}
	return sessionID, nil
}

func writeCart(w http.ResponseWriter, r *http.Request, rater TaxRater, orgID uuid.UUID, record *models.CartRecord) {
	rate := decimal.Zero
	if rater != nil {
		rate = rater.RateFor(r.Context(), orgID, nil)
	}
	responses.WriteSuccess(w, cart.FromModel(record, rate))
}

// CartGet returns the active cart for a register session, creating one when
// none exists yet.
func CartGet(svc cart.Service, rater TaxRater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sessionID, err := sessionIDQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.Get(ctx, orgID, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, r, rater, orgID, record)
	}
}

// CartAddItem adds a menu item to the session cart.
func CartAddItem(svc cart.Service, rater TaxRater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		empID, err := employeeID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.AddItem(ctx, orgID, payload.SessionID, cart.AddItemInput{
			MenuItemID:     payload.MenuItemID,
			Quantity:       payload.Quantity,
			Modifications:  payload.Modifications,
			Customizations: payload.Customizations,
			Note:           payload.Note,
			EmployeeID:     &empID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, r, rater, orgID, record)
	}
}

// CartUpdateItem changes a line quantity; zero removes the line.
func CartUpdateItem(svc cart.Service, rater TaxRater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.UpdateItemQuantity(ctx, orgID, payload.SessionID, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, r, rater, orgID, record)
	}
}

// CartUpdateItemNote rewrites the kitchen note on one line; a null note
// clears it.
func CartUpdateItemNote(svc cart.Service, rater TaxRater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCartItemNotePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.UpdateItemNote(ctx, orgID, payload.SessionID, itemID, payload.Note)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, r, rater, orgID, record)
	}
}

// CartRemoveItem deletes one line from the session cart.
func CartRemoveItem(svc cart.Service, rater TaxRater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sessionID, err := sessionIDQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.RemoveItem(ctx, orgID, sessionID, itemID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, r, rater, orgID, record)
	}
}

// CartClear empties the session cart.
func CartClear(svc cart.Service, rater TaxRater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sessionID, err := sessionIDQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := svc.Clear(ctx, orgID, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		writeCart(w, r, rater, orgID, record)
	}
}
