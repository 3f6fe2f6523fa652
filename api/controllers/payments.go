package controllers

import (
	"net/http"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/api/validators"
	"github.com/barbackhq/pos-backend/internal/orders"
	"github.com/barbackhq/pos-backend/internal/payments"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
)

type refundPayload struct {
	Reason *string `json:"reason"`
}

// OrderPayments lists the settlements recorded against an order. The order
// lookup enforces tenant scope before payments are read.
func OrderPayments(ordersSvc orders.Service, svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || ordersSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := ordersSvc.Get(ctx, orgID, orderID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListByOrder(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"payments": payments.FromModels(list)})
	}
}

// OrderReceipt returns the receipt issued at settlement.
func OrderReceipt(ordersSvc orders.Service, svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || ordersSvc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		orderID, err := validators.UUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, err := ordersSvc.Get(ctx, orgID, orderID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		receipt, err := svc.GetReceiptByOrder(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, payments.ReceiptFromModel(receipt))
	}
}

// PaymentRefund reverses a completed settlement. Managers only.
func PaymentRefund(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
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
		paymentID, err := validators.UUIDParam(r, "paymentId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload refundPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		refunded, err := svc.Refund(ctx, orgID, paymentID, payments.RefundInput{Reason: payload.Reason})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		logg.Info(ctx, "payment.refunded")
		responses.WriteSuccess(w, payments.FromModel(refunded))
	}
}
