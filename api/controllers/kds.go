package controllers

import (
	"net/http"
	"strings"

	"github.com/barbackhq/pos-backend/api/responses"
	"github.com/barbackhq/pos-backend/api/validators"
	"github.com/barbackhq/pos-backend/internal/kds"
	"github.com/barbackhq/pos-backend/pkg/enums"
	pkgerrors "github.com/barbackhq/pos-backend/pkg/errors"
	"github.com/barbackhq/pos-backend/pkg/logger"
)

type ticketStatusPayload struct {
	Status string `json:"status" validate:"required"`
}

// TicketsList returns the kitchen display board, filtered by station or
// status. active=true hides served tickets.
func TicketsList(svc kds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kds service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		filters := kds.ListFilters{Active: validators.BoolQuery(r, "active")}
		if raw := strings.TrimSpace(r.URL.Query().Get("station")); raw != "" {
			station, parseErr := enums.ParseTicketStation(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid station"))
				return
			}
			filters.Station = &station
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseTicketStatus(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status"))
				return
			}
			filters.Status = &status
		}

		tickets, err := svc.ListTickets(ctx, orgID, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"tickets": kds.FromModels(tickets)})
	}
}

// TicketsGet returns one ticket.
func TicketsGet(svc kds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kds service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "ticketId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ticket, err := svc.GetTicket(ctx, orgID, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, kds.FromModel(ticket))
	}
}

// TicketsUpdateStatus advances a ticket through the prep lifecycle, syncing
// the owning order.
func TicketsUpdateStatus(svc kds.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kds service unavailable"))
			return
		}
		orgID, err := organizationID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.UUIDParam(r, "ticketId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload ticketStatusPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		status, err := enums.ParseTicketStatus(payload.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		ticket, err := svc.UpdateTicketStatus(ctx, orgID, id, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, kds.FromModel(ticket))
	}
}
