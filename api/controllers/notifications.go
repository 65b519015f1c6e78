package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	"github.com/skburgers/backend/internal/notifications"
	orderssvc "github.com/skburgers/backend/internal/orders"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
)

// OrderWhatsAppLink builds the wa.me link the staff screens open to notify
// the customer at each stage.
func OrderWhatsAppLink(repo orderssvc.Repository, logg *logger.Logger) http.HandlerFunc {
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

		var message string
		switch kind := strings.TrimSpace(r.URL.Query().Get("kind")); kind {
		case "", "preparing":
			message = notifications.PreparingMessage(*order)
		case "delivering":
			message = notifications.OutForDeliveryMessage(*order)
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "kind must be preparing or delivering"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"order_id": order.ID,
			"phone":    order.Customer.Phone,
			"link":     notifications.WhatsAppLink(order.Customer.Phone, message),
		})
	}
}
