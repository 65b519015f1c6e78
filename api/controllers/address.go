package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/internal/address"
	"github.com/skburgers/backend/pkg/logger"
)

// AddressLookup resolves a CEP to a street and neighborhood, refusing
// addresses outside the served city.
func AddressLookup(client *address.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lookup, err := client.Lookup(r.Context(), chi.URLParam(r, "cep"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lookup)
	}
}
