package controllers

import (
	"net/http"
	"time"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	checkoutsvc "github.com/skburgers/backend/internal/checkout"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
	"github.com/skburgers/backend/pkg/metrics"
)

// Checkout accepts the customer cart and creates the order.
func Checkout(svc checkoutsvc.Service, orderMetrics *metrics.OrderMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutsvc.Input
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		start := time.Now()
		result, err := svc.Submit(r.Context(), payload)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil {
				orderMetrics.IncRejected(string(typed.Code()))
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderMetrics.IncCreated(result.Order.PaymentMethod.String())
		orderMetrics.ObserveCheckout(time.Since(start))

		if logg != nil {
			ctx := logg.WithComanda(r.Context(), result.Order.Comanda)
			logg.Info(ctx, "order accepted")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
