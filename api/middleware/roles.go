package middleware

import (
	"net/http"

	"github.com/skburgers/backend/api/responses"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/logger"
)

func RequireRole(role enums.ActorRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != string(role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole admits requests whose session role matches any of the given
// roles. The kitchen display is shared by admin and kitchen sessions.
func RequireAnyRole(logg *logger.Logger, roles ...enums.ActorRole) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[string(role)] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[RoleFromContext(r.Context())]; !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
