package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skburgers/backend/api/middleware"
	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	orderssvc "github.com/skburgers/backend/internal/orders"
	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/enums"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
)

// KitchenQueue returns the production queue: preparing orders first, then
// pending FIFO, each flagged with its lateness bucket.
func KitchenQueue(repo orderssvc.Repository, delivery config.DeliveryConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := repo.ListKitchenQueue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now()
		entries := make([]orderssvc.QueueEntry, 0, len(orders))
		for _, order := range orders {
			lateness, waiting := orderssvc.LatenessFor(order, now, delivery)
			entries = append(entries, orderssvc.QueueEntry{
				Order:    order,
				Lateness: lateness,
				WaitingM: waiting,
			})
		}
		responses.WriteSuccess(w, map[string]any{"queue": entries})
	}
}

// KitchenStartProduction moves a pending order into preparation and burns its
// recipe ingredients from stock.
func KitchenStartProduction(svc orderssvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.StartProduction(r.Context(), orderssvc.TransitionInput{
			OrderID: orderID,
			Actor:   middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderMetrics.IncTransition(enums.OrderStatusPending.String(), enums.OrderStatusPreparing.String())
		responses.WriteSuccess(w, order)
	}
}

// KitchenMarkReady flags a preparing order as ready for the dispatch board.
func KitchenMarkReady(svc orderssvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.MarkReady(r.Context(), orderssvc.TransitionInput{
			OrderID: orderID,
			Actor:   middleware.ActorFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderMetrics.IncTransition(enums.OrderStatusPreparing.String(), enums.OrderStatusReadyForDelivery.String())
		responses.WriteSuccess(w, order)
	}
}
