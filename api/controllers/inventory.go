package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	"github.com/skburgers/backend/internal/inventory"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/logger"
)

type inventoryItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Unit        string          `json:"unit" validate:"required"`
	Quantity    float64         `json:"quantity"`
	MinQuantity float64         `json:"min_quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type inventoryPatchRequest struct {
	Name          *string          `json:"name,omitempty"`
	Unit          *string          `json:"unit,omitempty"`
	Quantity      *float64         `json:"quantity,omitempty"`
	MinQuantity   *float64         `json:"min_quantity,omitempty"`
	PhysicalCount *float64         `json:"physical_count,omitempty"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
}

// AdminListInventory returns every tracked ingredient.
func AdminListInventory(repo inventory.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := repo.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// AdminLowInventory returns ingredients at or below their minimum.
func AdminLowInventory(svc *inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListLow(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// AdminCreateInventoryItem registers a new ingredient.
func AdminCreateInventoryItem(repo inventory.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload inventoryItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := repo.Create(r.Context(), &models.InventoryItem{
			Name:        payload.Name,
			Unit:        payload.Unit,
			Quantity:    payload.Quantity,
			MinQuantity: payload.MinQuantity,
			UnitCost:    payload.UnitCost,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// AdminUpdateInventoryItem patches the provided fields only.
func AdminUpdateInventoryItem(repo inventory.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload inventoryPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updates := map[string]any{}
		if payload.Name != nil {
			updates["name"] = *payload.Name
		}
		if payload.Unit != nil {
			updates["unit"] = *payload.Unit
		}
		if payload.Quantity != nil {
			updates["quantity"] = *payload.Quantity
		}
		if payload.MinQuantity != nil {
			updates["min_quantity"] = *payload.MinQuantity
		}
		if payload.PhysicalCount != nil {
			updates["physical_count"] = *payload.PhysicalCount
		}
		if payload.UnitCost != nil {
			updates["unit_cost"] = *payload.UnitCost
		}

		if err := repo.Update(r.Context(), itemID, updates); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := repo.Find(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminDeleteInventoryItem removes an ingredient from tracking.
func AdminDeleteInventoryItem(repo inventory.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := validators.PathUUID(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := repo.Delete(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": itemID, "deleted": true})
	}
}
