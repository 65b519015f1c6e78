package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	"github.com/skburgers/backend/internal/catalog"
	"github.com/skburgers/backend/internal/insights"
	"github.com/skburgers/backend/internal/storeconfig"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/logger"
)

type menuResponse struct {
	Open              bool                 `json:"open"`
	RainMode          bool                 `json:"rain_mode"`
	OverloadMode      bool                 `json:"overload_mode"`
	Categories        []string             `json:"categories"`
	Addons            []models.ConfigAddon `json:"addons"`
	DessertOfferPrice decimal.Decimal      `json:"dessert_offer_price"`
	DessertSoloPrice  decimal.Decimal      `json:"dessert_solo_price"`
	PixKey            string               `json:"pix_key,omitempty"`
	WhatsAppNumber    string               `json:"whatsapp_number,omitempty"`
	Products          []models.Product     `json:"products"`
}

// Menu returns everything the customer ordering screen needs in one call.
func Menu(catalogSvc *catalog.Service, configSvc *storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := configSvc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		products, err := catalogSvc.Menu(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, menuResponse{
			Open:              cfg.Open,
			RainMode:          cfg.RainMode,
			OverloadMode:      cfg.OverloadMode,
			Categories:        cfg.CategoriesOrDefault(),
			Addons:            cfg.Addons,
			DessertOfferPrice: cfg.DessertOfferPrice,
			DessertSoloPrice:  cfg.DessertSoloPrice,
			PixKey:            cfg.PixKey,
			WhatsAppNumber:    cfg.WhatsAppNumber,
			Products:          products,
		})
	}
}

type upsellRequest struct {
	CartProductIDs []uuid.UUID `json:"cart_product_ids" validate:"required,min=1"`
}

type upsellResponse struct {
	Suggestion *models.Product `json:"suggestion"`
}

// Upsell asks the suggestion model for one extra item to offer before
// checkout. A null suggestion is a normal answer, never an error.
func Upsell(catalogSvc *catalog.Service, insightsSvc *insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload upsellRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := catalogSvc.Menu(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		inCart := make(map[uuid.UUID]bool, len(payload.CartProductIDs))
		for _, id := range payload.CartProductIDs {
			inCart[id] = true
		}

		var cartNames []string
		var candidates []models.Product
		for _, product := range products {
			if inCart[product.ID] {
				cartNames = append(cartNames, product.Name)
				continue
			}
			candidates = append(candidates, product)
		}

		suggestedID := insightsSvc.SuggestUpsell(r.Context(), cartNames, candidates)
		var suggestion *models.Product
		if suggestedID != nil {
			for i := range candidates {
				if candidates[i].ID == *suggestedID {
					suggestion = &candidates[i]
					break
				}
			}
		}
		responses.WriteSuccess(w, upsellResponse{Suggestion: suggestion})
	}
}
