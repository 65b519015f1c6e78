package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/logger"
	pkgredis "github.com/skburgers/backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "skburgers",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:      cfg,
		Logger:      logg,
		DBPinger:    stubPinger{},
		RedisClient: (*pkgredis.Client)(nil),
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-SKB-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-SKB-Env"))
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestStaffGroupsRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/kitchen/queue"},
		{http.MethodGet, "/api/v1/dispatch/board"},
		{http.MethodGet, "/api/v1/driver/orders"},
		{http.MethodGet, "/api/v1/admin/orders/"},
		{http.MethodGet, "/api/v1/admin/finance/daily"},
		{http.MethodPost, "/api/v1/auth/logout"},
	}

	for _, tt := range paths {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tt.method, tt.path, resp.Code)
		}
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}
}
