package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	"github.com/skburgers/backend/internal/catalog"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/logger"
)

type productRequest struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Category    string              `json:"category" validate:"required"`
	Price       decimal.Decimal     `json:"price" validate:"required"`
	ComboPrice  *decimal.Decimal    `json:"combo_price,omitempty"`
	ImageURL    string              `json:"image_url"`
	Recipe      []models.RecipeLine `json:"recipe,omitempty" validate:"dive"`
}

type productPatchRequest struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Category    *string             `json:"category,omitempty"`
	Price       *decimal.Decimal    `json:"price,omitempty"`
	ComboPrice  *decimal.Decimal    `json:"combo_price,omitempty"`
	ImageURL    *string             `json:"image_url,omitempty"`
	Recipe      []models.RecipeLine `json:"recipe,omitempty" validate:"dive"`
}

type pauseRequest struct {
	Paused bool `json:"paused"`
}

// AdminListProducts returns the whole catalog, paused entries included.
func AdminListProducts(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

// AdminCreateProduct adds a catalog entry.
func AdminCreateProduct(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := repo.Create(r.Context(), &models.Product{
			Name:        payload.Name,
			Description: payload.Description,
			Category:    payload.Category,
			Price:       payload.Price,
			ComboPrice:  payload.ComboPrice,
			ImageURL:    payload.ImageURL,
			Recipe:      payload.Recipe,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct patches the provided fields only.
func AdminUpdateProduct(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updates := map[string]any{}
		if payload.Name != nil {
			updates["name"] = *payload.Name
		}
		if payload.Description != nil {
			updates["description"] = *payload.Description
		}
		if payload.Category != nil {
			updates["category"] = *payload.Category
		}
		if payload.Price != nil {
			updates["price"] = *payload.Price
		}
		if payload.ComboPrice != nil {
			updates["combo_price"] = *payload.ComboPrice
		}
		if payload.ImageURL != nil {
			updates["image_url"] = *payload.ImageURL
		}
		if payload.Recipe != nil {
			updates["recipe"] = payload.Recipe
		}

		if err := repo.Update(r.Context(), productID, updates); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := repo.Find(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminPauseProduct toggles a product's visibility on the customer menu.
func AdminPauseProduct(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload pauseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetPaused(r.Context(), productID, payload.Paused); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": productID, "paused": payload.Paused})
	}
}

// AdminDeleteProduct removes a catalog entry.
func AdminDeleteProduct(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := repo.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": productID, "deleted": true})
	}
}

// AdminProductCosts estimates each product's ingredient cost and margin.
func AdminProductCosts(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		costs, err := svc.EstimateCosts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"costs": costs})
	}
}
