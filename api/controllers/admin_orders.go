package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skburgers/backend/api/middleware"
	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	orderssvc "github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
	"github.com/skburgers/backend/pkg/pagination"
)

// AdminListOrders returns the paginated back-office order list with optional
// status, driver, phone and date filters.
func AdminListOrders(repo orderssvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orderssvc.ListFilters{
			Phone: strings.TrimSpace(r.URL.Query().Get("phone")),
		}

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		if filters.DriverID, err = validators.ParseQueryUUID(r, "driver_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateFrom, err = validators.ParseQueryDate(r, "date_from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateTo, err = validators.ParseQueryDate(r, "date_to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminGetOrder returns one order with its items.
func AdminGetOrder(repo orderssvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := repo.Find(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminCompleteOrder closes out a delivered order after payment settles.
func AdminCompleteOrder(svc orderssvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Complete(r.Context(), orderssvc.TransitionInput{
			OrderID: orderID,
			Actor:   middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderMetrics.IncTransition(enums.OrderStatusDelivered.String(), enums.OrderStatusCompleted.String())
		responses.WriteSuccess(w, order)
	}
}

// AdminCancelOrder cancels any order that has not yet reached a terminal
// state.
func AdminCancelOrder(svc orderssvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orderssvc.TransitionInput{
			OrderID: orderID,
			Actor:   middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderMetrics.IncTransition("any", enums.OrderStatusCancelled.String())
		responses.WriteSuccess(w, order)
	}
}
