package controllers

import (
	"net/http"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	"github.com/skburgers/backend/internal/storeconfig"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/logger"
)

// AdminGetConfig returns the operational settings row.
func AdminGetConfig(svc *storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sanitizeConfig(cfg))
	}
}

// AdminUpdateConfig patches the settings row and broadcasts the change so
// every open screen refreshes.
func AdminUpdateConfig(svc *storeconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload storeconfig.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cfg, err := svc.Update(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sanitizeConfig(cfg))
	}
}

func sanitizeConfig(cfg *models.StoreConfig) map[string]any {
	return map[string]any{
		"daily_goal":          cfg.DailyGoal,
		"open":                cfg.Open,
		"rain_mode":           cfg.RainMode,
		"overload_mode":       cfg.OverloadMode,
		"pix_key":             cfg.PixKey,
		"whatsapp_number":     cfg.WhatsAppNumber,
		"dessert_offer_price": cfg.DessertOfferPrice,
		"dessert_solo_price":  cfg.DessertSoloPrice,
		"categories":          cfg.CategoriesOrDefault(),
		"addons":              cfg.Addons,
		"admin_pin_set":       cfg.AdminPINHash != "",
		"kitchen_pin_set":     cfg.KitchenPINHash != "",
		"updated_at":          cfg.UpdatedAt,
	}
}
