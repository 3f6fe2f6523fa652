package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/api/validators"
	"github.com/barbackhq/pos-backend/internal/inventory"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
	"github.com/barbackhq/pos-backend/pkg/pagination"
)

type createInventoryItemPayload struct {
	Name         string          `json:"name" validate:"required"`
	Unit         string          `json:"unit" validate:"required"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	MaxStock     decimal.Decimal `json:"max_stock"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	ExpiryDate   *time.Time      `json:"expiry_date"`
	Supplier     *string         `json:"supplier"`
}

type updateInventoryItemPayload struct {
	Name        *string          `json:"name"`
	Unit        *string          `json:"unit"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	MaxStock    *decimal.Decimal `json:"max_stock"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit"`
	ExpiryDate  *time.Time       `json:"expiry_date"`
	ClearExpiry bool             `json:"clear_expiry"`
	Supplier    *string          `json:"supplier"`
}

type adjustStockPayload struct {
	Type     string          `json:"type" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Reason   *string         `json:"reason"`
}

// InventoryCreate registers a stock item. Managers only.
func InventoryCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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

		var payload createInventoryItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.Create(ctx, orgID, inventory.CreateInput{
			Name:         payload.Name,
			Unit:         payload.Unit,
			CurrentStock: payload.CurrentStock,
			MinStock:     payload.MinStock,
			MaxStock:     payload.MaxStock,
			CostPerUnit:  payload.CostPerUnit,
			ExpiryDate:   payload.ExpiryDate,
			Supplier:     payload.Supplier,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, inventory.FromModel(created))
	}
}

// InventoryList returns stock items, optionally only those running low.
func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		expiringWithin, err := validators.IntQuery(r, "expiring_within", 0)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		items, err := svc.List(ctx, orgID, inventory.ListFilters{
			Query:              strings.TrimSpace(r.URL.Query().Get("query")),
			LowStock:           validators.BoolQuery(r, "low_stock"),
			ExpiringWithinDays: expiringWithin,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": inventory.FromModels(items)})
	}
}

// InventoryValuation prices the stock on hand at cost.
func InventoryValuation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		valuation, err := svc.Valuation(ctx, orgID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, valuation)
	}
}

// InventoryGet returns a single stock item.
func InventoryGet(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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
		responses.WriteSuccess(w, inventory.FromModel(item))
	}
}

// InventoryUpdate applies partial updates to a stock item. Managers only.
func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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

		var payload updateInventoryItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.Update(ctx, orgID, id, inventory.UpdateInput{
			Name:        payload.Name,
			Unit:        payload.Unit,
			MinStock:    payload.MinStock,
			MaxStock:    payload.MaxStock,
			CostPerUnit: payload.CostPerUnit,
			ExpiryDate:  payload.ExpiryDate,
			ClearExpiry: payload.ClearExpiry,
			Supplier:    payload.Supplier,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.FromModel(updated))
	}
}

// InventoryDelete removes a stock item. Managers only.
func InventoryDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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

// InventoryAdjust records a manual stock movement (restock, waste,
// correction) against an item.
func InventoryAdjust(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
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
		id, err := validators.UUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload adjustStockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		txnType, err := enums.ParseInventoryTransactionType(payload.Type)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}

		updated, err := svc.Adjust(ctx, orgID, inventory.AdjustInput{
			InventoryItemID: id,
			Type:            txnType,
			Quantity:        payload.Quantity,
			Reason:          payload.Reason,
			EmployeeID:      &empID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, inventory.FromModel(updated))
	}
}

// InventoryTransactions returns the movement audit trail.
func InventoryTransactions(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := validators.OptionalUUIDQuery(r, "item_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		limit, err := validators.IntQuery(r, "limit", pagination.DefaultLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		transactions, err := svc.ListTransactions(ctx, orgID, itemID, pagination.NormalizeLimit(limit))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"transactions": inventory.TransactionsFromModels(transactions)})
	}
}

// InventoryAlerts returns the current alert set, recomputing on demand.
func InventoryAlerts(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var alerts []inventory.AlertDTO
		if validators.BoolQuery(r, "refresh") {
			recomputed, recomputeErr := svc.RecomputeAlerts(ctx, orgID)
			if recomputeErr != nil {
				responses.WriteError(ctx, logg, w, recomputeErr)
				return
			}
			alerts = inventory.AlertsFromModels(recomputed)
		} else {
			listed, listErr := svc.ListAlerts(ctx, orgID)
			if listErr != nil {
				responses.WriteError(ctx, logg, w, listErr)
				return
			}
			alerts = inventory.AlertsFromModels(listed)
		}

		responses.WriteSuccess(w, map[string]any{"alerts": alerts})
	}
}
