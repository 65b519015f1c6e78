package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/skburgers/backend/api/responses"
	pkgauth "github.com/skburgers/backend/pkg/auth"
	"github.com/skburgers/backend/pkg/auth/session"
	"github.com/skburgers/backend/pkg/config"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
)

// Auth validates a bearer token, confirms the session is still live in Redis,
// and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, checker session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.SessionID() == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if checker != nil {
				record, err := checker.Lookup(r.Context(), claims.SessionID())
				if err != nil {
					if errors.Is(err, session.ErrSessionNotFound) {
						responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
						return
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if record.Role != claims.Role {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session role mismatch"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxSessionID, claims.SessionID())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if claims.DriverID != nil {
				ctx = context.WithValue(ctx, ctxDriverID, *claims.DriverID)
			}

			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(claims.Role))
				if claims.DriverID != nil {
					ctx = logg.WithDriverID(ctx, claims.DriverID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
