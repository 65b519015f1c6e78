package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skburgers/backend/pkg/enums"
)

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role == "" {
		return req
	}
	return req.WithContext(context.WithValue(req.Context(), ctxRole, role))
}

func TestRequireRole(t *testing.T) {
	var reached bool
	handler := RequireRole(enums.ActorRoleAdmin, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithRole("kitchen"))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role got %d", resp.Code)
	}
	if reached {
		t.Fatal("handler should not run for wrong role")
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithRole("admin"))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	handler := RequireRole(enums.ActorRoleDriver, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithRole(""))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without role got %d", resp.Code)
	}
}

func TestRequireAnyRole(t *testing.T) {
	handler := RequireAnyRole(nil, enums.ActorRoleKitchen, enums.ActorRoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, role := range []string{"kitchen", "admin"} {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, requestWithRole(role))
		if resp.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200 got %d", role, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithRole("driver"))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for driver got %d", resp.Code)
	}
}
