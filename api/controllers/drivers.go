package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	driverssvc "github.com/skburgers/backend/internal/drivers"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
)

type driverStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=idle busy offline"`
}

// AdminListDrivers returns the motoboy roster.
func AdminListDrivers(svc *driverssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drivers, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"drivers": drivers})
	}
}

// AdminCreateDriver registers a driver; the PIN is hashed before storage.
func AdminCreateDriver(svc *driverssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload driverssvc.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		driver, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, driver)
	}
}

// AdminSetDriverStatus flips a driver between idle, busy, and offline.
func AdminSetDriverStatus(svc *driverssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := validators.PathUUID(chi.URLParam(r, "driverId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload driverStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseDriverStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid driver status"))
			return
		}

		if err := svc.SetStatus(r.Context(), driverID, status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": driverID, "status": status})
	}
}

type driverPINResetRequest struct {
	PIN string `json:"pin" validate:"required,len=4,numeric"`
}

// AdminResetDriverPIN replaces a driver's login PIN.
func AdminResetDriverPIN(svc *driverssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := validators.PathUUID(chi.URLParam(r, "driverId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload driverPINResetRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ResetPIN(r.Context(), driverID, payload.PIN); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": driverID, "pin_reset": true})
	}
}

// AdminDeleteDriver removes a driver from the roster.
func AdminDeleteDriver(svc *driverssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverID, err := validators.PathUUID(chi.URLParam(r, "driverId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), driverID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": driverID, "deleted": true})
	}
}
