package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/skburgers/backend/api/middleware"
	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	driverssvc "github.com/skburgers/backend/internal/drivers"
	orderssvc "github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
)

// DispatchBoard lists the ready orders waiting for a route, the drivers free
// to take one, and the in-flight routes grouped per driver.
func DispatchBoard(repo orderssvc.Repository, drivers *driverssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready, err := repo.ListByStatus(r.Context(), enums.OrderStatusReadyForDelivery)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		idle, err := drivers.ListIdle(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		delivering, err := repo.ListByStatus(r.Context(), enums.OrderStatusDelivering)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"ready_orders":      ready,
			"idle_drivers":      idle,
			"delivering_routes": groupRoutes(delivering),
		})
	}
}

type driverRoute struct {
	DriverID   uuid.UUID      `json:"driver_id"`
	DriverName string         `json:"driver_name,omitempty"`
	Orders     []models.Order `json:"orders"`
}

// groupRoutes folds delivering orders into one entry per driver, preserving
// the repository's ordering within each route.
func groupRoutes(orders []models.Order) []driverRoute {
	routes := make([]driverRoute, 0)
	index := make(map[uuid.UUID]int)
	for _, order := range orders {
		if order.DriverID == nil {
			continue
		}
		pos, ok := index[*order.DriverID]
		if !ok {
			pos = len(routes)
			index[*order.DriverID] = pos
			route := driverRoute{DriverID: *order.DriverID}
			if order.DriverName != nil {
				route.DriverName = *order.DriverName
			}
			routes = append(routes, route)
		}
		routes[pos].Orders = append(routes[pos].Orders, order)
	}
	return routes
}

type batchDispatchRequest struct {
	DriverID uuid.UUID   `json:"driver_id" validate:"required"`
	OrderIDs []uuid.UUID `json:"order_ids" validate:"required,min=1"`
}

// DispatchBatch assigns a set of ready orders to one driver atomically.
func DispatchBatch(svc orderssvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload batchDispatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.BatchDispatch(r.Context(), orderssvc.BatchDispatchInput{
			DriverID: payload.DriverID,
			OrderIDs: payload.OrderIDs,
			Actor:    middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		for range orders {
			orderMetrics.IncTransition(enums.OrderStatusReadyForDelivery.String(), enums.OrderStatusDelivering.String())
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders})
	}
}

// DispatchFreeDriver settles every delivering order on the driver's route and
// marks the driver available again.
func DispatchFreeDriver(svc orderssvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := validators.PathUUID(chi.URLParam(r, "driverId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.FreeDriver(r.Context(), driverID, middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		for range orders {
			orderMetrics.IncTransition(enums.OrderStatusDelivering.String(), enums.OrderStatusDelivered.String())
		}
		responses.WriteSuccess(w, map[string]any{"orders": orders})
	}
}
