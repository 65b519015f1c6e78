package controllers

import (
	"net/http"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	"github.com/skburgers/backend/internal/marketing"
	"github.com/skburgers/backend/pkg/logger"
)

// AdminMissingCustomers lists customers who stopped ordering, each with a
// ready win-back WhatsApp link.
func AdminMissingCustomers(svc *marketing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, err := validators.ParseQueryInt(r, "days", 7, 1, 365)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customers, err := svc.MissingCustomers(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"customers": customers})
	}
}
