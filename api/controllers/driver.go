package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/api/middleware"
	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	orderssvc "github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/geo"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
)

// DriverRoute lists the authenticated driver's in-flight deliveries.
func DriverRoute(repo orderssvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID := middleware.DriverIDFromContext(r.Context())
		if driverID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "driver session required"))
			return
		}

		orders, err := repo.ListByDriver(r.Context(), *driverID, enums.OrderStatusDelivering)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders})
	}
}

type completeDeliveryRequest struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// DriverCompleteDelivery marks one order delivered. When the order carries a
// destination coordinate the driver must be within the proximity gate.
func DriverCompleteDelivery(svc orderssvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID := middleware.DriverIDFromContext(r.Context())
		if driverID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "driver session required"))
			return
		}

		orderID, err := validators.PathUUID(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload completeDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var position *geo.Point
		if payload.Lat != nil && payload.Lng != nil {
			position = &geo.Point{Lat: *payload.Lat, Lng: *payload.Lng}
		}

		order, err := svc.CompleteDelivery(r.Context(), orderssvc.CompleteDeliveryInput{
			OrderID:  orderID,
			DriverID: *driverID,
			Position: position,
			Actor:    middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderMetrics.IncTransition(enums.OrderStatusDelivering.String(), enums.OrderStatusDelivered.String())
		responses.WriteSuccess(w, order)
	}
}

type extraItemRequest struct {
	Name      string          `json:"name" validate:"required"`
	Qty       int             `json:"qty" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

// DriverAddExtra appends a doorstep sale (an extra dessert, a drink) to an
// order the driver is currently delivering.
func DriverAddExtra(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID := middleware.DriverIDFromContext(r.Context())
		if driverID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "driver session required"))
			return
		}

		orderID, err := validators.PathUUID(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload extraItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddExtraItem(r.Context(), orderssvc.ExtraItemInput{
			OrderID:   orderID,
			DriverID:  *driverID,
			Name:      payload.Name,
			Qty:       payload.Qty,
			UnitPrice: payload.UnitPrice,
			Actor:     middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
