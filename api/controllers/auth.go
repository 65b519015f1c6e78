package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/skburgers/backend/api/middleware"
	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/api/validators"
	driverssvc "github.com/skburgers/backend/internal/drivers"
	pkgauth "github.com/skburgers/backend/pkg/auth"
	"github.com/skburgers/backend/pkg/auth/session"
	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
)

// PINVerifier checks a staff PIN against the configured role gate.
type PINVerifier interface {
	VerifyAccess(ctx context.Context, role enums.ActorRole, pin string) error
}

type staffLoginRequest struct {
	Role string `json:"role" validate:"required,oneof=admin kitchen"`
	PIN  string `json:"pin" validate:"required,len=4,numeric"`
}

type driverLoginRequest struct {
	PIN string `json:"pin" validate:"required,len=4,numeric"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	DriverID  *string   `json:"driver_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// StaffLogin exchanges an admin or kitchen PIN for a session-backed token.
func StaffLogin(verifier PINVerifier, sessions *session.Manager, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload staffLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseActorRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		if err := verifier.VerifyAccess(r.Context(), role, payload.PIN); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		sessionID, err := sessions.Create(r.Context(), session.Record{Role: role, IssuedAt: now})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session"))
			return
		}

		token, err := pkgauth.MintAccessToken(jwtCfg, now, pkgauth.AccessTokenPayload{Role: role, JTI: sessionID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{
			Token:     token,
			Role:      role.String(),
			ExpiresAt: now.Add(jwtCfg.Expiration()),
		})
	}
}

// DriverLogin matches the PIN against the driver roster. The login form has
// no identity field, so the PIN alone selects the driver.
func DriverLogin(drivers *driverssvc.Service, sessions *session.Manager, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload driverLoginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		driver, err := drivers.Authenticate(r.Context(), payload.PIN)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		sessionID, err := sessions.Create(r.Context(), session.Record{
			Role:     enums.ActorRoleDriver,
			DriverID: &driver.ID,
			IssuedAt: now,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session"))
			return
		}

		token, err := pkgauth.MintAccessToken(jwtCfg, now, pkgauth.AccessTokenPayload{
			Role:     enums.ActorRoleDriver,
			DriverID: &driver.ID,
			JTI:      sessionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		driverID := driver.ID.String()
		responses.WriteSuccess(w, loginResponse{
			Token:     token,
			Role:      enums.ActorRoleDriver.String(),
			DriverID:  &driverID,
			ExpiresAt: now.Add(jwtCfg.Expiration()),
		})
	}
}

// Logout revokes the session behind the presented token.
func Logout(sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session"))
			return
		}
		if err := sessions.Revoke(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
