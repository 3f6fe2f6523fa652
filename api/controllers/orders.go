package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/api/validators"
	"github.com/barbackhq/pos-backend/internal/orders"
	"github.com/barbackhq/pos-backend/internal/payments"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
	"github.com/barbackhq/pos-backend/pkg/pagination"
)

type orderLinePayload struct {
	MenuItemID     uuid.UUID         `json:"menu_item_id" validate:"required"`
	Quantity       int               `json:"quantity" validate:"required,min=1"`
	Modifications  []string          `json:"modifications"`
	Customizations map[string]string `json:"customizations"`
	Note           *string           `json:"note"`
}

type checkoutPayload struct {
	SessionID  string     `json:"session_id" validate:"required"`
	Type       string     `json:"type" validate:"required"`
	Priority   *string    `json:"priority"`
	TableID    *uuid.UUID `json:"table_id"`
	LocationID *uuid.UUID `json:"location_id"`
	GuestCount int        `json:"guest_count"`
	Note       *string    `json:"note"`
}

type createOrderPayload struct {
	Type       string             `json:"type" validate:"required"`
	Priority   *string            `json:"priority"`
	TableID    *uuid.UUID         `json:"table_id"`
	LocationID *uuid.UUID         `json:"location_id"`
	GuestCount int                `json:"guest_count"`
	Note       *string            `json:"note"`
	Items      []orderLinePayload `json:"items" validate:"required,min=1,dive"`
}

type addOrderItemsPayload struct {
	Items []orderLinePayload `json:"items" validate:"required,min=1,dive"`
}

type orderStatusPayload struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason"`
}

type cardPayload struct {
	Number      string `json:"number" validate:"required"`
	CVV         string `json:"cvv" validate:"required"`
	HolderName  string `json:"holder_name" validate:"required"`
	ExpiryMonth int    `json:"expiry_month" validate:"required"`
	ExpiryYear  int    `json:"expiry_year" validate:"required"`
}

type splitLegPayload struct {
	Method       string           `json:"method" validate:"required"`
	Amount       decimal.Decimal  `json:"amount" validate:"required"`
	Card         *cardPayload     `json:"card"`
	CashTendered *decimal.Decimal `json:"cash_tendered"`
	GuestLabel   string           `json:"guest_label"`
}

type paymentPayload struct {
	Method       string            `json:"method" validate:"required"`
	Card         *cardPayload      `json:"card"`
	CashTendered *decimal.Decimal  `json:"cash_tendered"`
	Splits       []splitLegPayload `json:"splits" validate:"dive"`
}

type closeOrderPayload struct {
	Tip     decimal.Decimal  `json:"tip"`
	TaxRate *decimal.Decimal `json:"tax_rate"`
	Payment paymentPayload   `json:"payment" validate:"required"`
}

func cardDetails(payload *cardPayload) *payments.CardDetails {
	if payload == nil {
		return nil
	}
	return &payments.CardDetails{
		Number:      payload.Number,
		CVV:         payload.CVV,
		HolderName:  payload.HolderName,
		ExpiryMonth: payload.ExpiryMonth,
		ExpiryYear:  payload.ExpiryYear,
	}
}

func lineInputs(payload []orderLinePayload) []orders.LineInput {
	items := make([]orders.LineInput, 0, len(payload))
	for _, line := range payload {
		items = append(items, orders.LineInput{
			MenuItemID:     line.MenuItemID,
			Quantity:       line.Quantity,
			Modifications:  line.Modifications,
			Customizations: line.Customizations,
			Note:           line.Note,
		})
	}
	return items
}

func parsePriority(raw *string) (*enums.OrderPriority, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	priority, err := enums.ParseOrderPriority(*raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid priority")
	}
	return &priority, nil
}

func settleRequest(payload paymentPayload) (payments.SettleRequest, error) {
	method, err := enums.ParsePaymentMethod(payload.Method)
	if err != nil {
		return payments.SettleRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	req := payments.SettleRequest{
		Method:       method,
		Card:         cardDetails(payload.Card),
		CashTendered: payload.CashTendered,
	}
	for _, leg := range payload.Splits {
		legMethod, legErr := enums.ParsePaymentMethod(leg.Method)
		if legErr != nil {
			return payments.SettleRequest{}, pkgerrors.Wrap(pkgerrors.CodeValidation, legErr, "invalid split method")
		}
		req.Splits = append(req.Splits, payments.SplitRequest{
			Method:       legMethod,
			Amount:       leg.Amount,
			Card:         cardDetails(leg.Card),
			CashTendered: leg.CashTendered,
			GuestLabel:   leg.GuestLabel,
		})
	}
	return req, nil
}

// Checkout converts the session cart into an order and fires the kitchen
// ticket.
func Checkout(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orderType, err := enums.ParseOrderType(payload.Type)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
			return
		}
		priority, err := parsePriority(payload.Priority)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Checkout(ctx, orgID, orders.CheckoutInput{
			SessionID:  payload.SessionID,
			Type:       orderType,
			Priority:   priority,
			TableID:    payload.TableID,
			LocationID: payload.LocationID,
			GuestCount: payload.GuestCount,
			Note:       payload.Note,
			EmployeeID: empID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ctx = logg.WithOrderNumber(ctx, order.OrderNumber)
		logg.Info(ctx, "order.checkout")
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.FromModel(order))
	}
}

// OrdersCreate opens an order with inline line items, bypassing the cart.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

		var payload createOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orderType, err := enums.ParseOrderType(payload.Type)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type"))
			return
		}
		priority, err := parsePriority(payload.Priority)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Create(ctx, orgID, orders.CreateInput{
			Type:       orderType,
			Priority:   priority,
			TableID:    payload.TableID,
			LocationID: payload.LocationID,
			GuestCount: payload.GuestCount,
			Note:       payload.Note,
			EmployeeID: empID,
			Items:      lineInputs(payload.Items),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ctx = logg.WithOrderNumber(ctx, order.OrderNumber)
		logg.Info(ctx, "order.created")
		responses.WriteSuccessStatus(w, http.StatusCreated, orders.FromModel(order))
	}
}

// OrdersList returns orders filtered by status, type, table or date window.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filters := orders.ListFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			orderType, parseErr := enums.ParseOrderType(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid type"))
				return
			}
			filters.Type = &orderType
		}
		if filters.TableID, err = validators.OptionalUUIDQuery(r, "table_id"); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("date_from")); raw != "" {
			from, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid date_from"))
				return
			}
			filters.DateFrom = &from
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("date_to")); raw != "" {
			to, parseErr := time.Parse(time.RFC3339, raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid date_to"))
				return
			}
			filters.DateTo = &to
		}
		limit, err := validators.IntQuery(r, "limit", pagination.DefaultLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filters.Limit = pagination.NormalizeLimit(limit)

		list, err := svc.List(ctx, orgID, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders.FromModels(list)})
	}
}

// OrdersGet returns one order with lines, tickets and payments.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Get(ctx, orgID, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.FromModel(order))
	}
}

// OrdersAddItems appends lines to an order that is still open.
func OrdersAddItems(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addOrderItemsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.AddItems(ctx, orgID, id, lineInputs(payload.Items))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders.FromModel(order))
	}
}

// OrdersUpdateStatus advances the order lifecycle; cancellation carries an
// optional reason.
func OrdersUpdateStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload orderStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		var order *orders.OrderDTO
		if status == enums.OrderStatusCancelled {
			cancelled, cancelErr := svc.Cancel(ctx, orgID, id, payload.Reason)
			if cancelErr != nil {
				responses.WriteError(ctx, logg, w, cancelErr)
				return
			}
			order = orders.FromModel(cancelled)
		} else {
			updated, updateErr := svc.UpdateStatus(ctx, orgID, id, status)
			if updateErr != nil {
				responses.WriteError(ctx, logg, w, updateErr)
				return
			}
			order = orders.FromModel(updated)
		}

		responses.WriteSuccess(w, order)
	}
}

// OrdersClose settles the check and issues the receipt.
func OrdersClose(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload closeOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		req, err := settleRequest(payload.Payment)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Close(ctx, orgID, id, orders.CloseInput{
			Tip:     payload.Tip,
			TaxRate: payload.TaxRate,
			Payment: req,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ctx = logg.WithOrderNumber(ctx, result.Order.OrderNumber)
		logg.Info(ctx, "order.closed")
		responses.WriteSuccess(w, orders.CloseResultToDTO(result))
	}
}
