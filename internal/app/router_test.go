package app_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/careerboost-api/internal/adapter/httpserver"
	"github.com/fairyhunter13/careerboost-api/internal/app"
	"github.com/fairyhunter13/careerboost-api/internal/config"
)

func baseConfig() config.Config {
	return config.Config{Port: 5000, MaxUploadMB: 10, ClientURL: "http://localhost:5173"}
}

func TestBuildRouter_HealthReadyAndNotFound(t *testing.T) {
	cfg := baseConfig()
	h := app.BuildRouter(cfg, httpserver.NewServer(cfg, nil, nil, nil, nil), nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Endpoint not found","code":"NOT_FOUND"}`, rec.Body.String())
}

func TestBuildRouter_CORS(t *testing.T) {
	cfg := baseConfig()
	h := app.BuildRouter(cfg, httpserver.NewServer(cfg, nil, nil, nil, nil), nil)

	req := httptest.NewRequest(http.MethodOptions, "/youtube/process", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/youtube/process", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// An empty body is rejected by validation before any use case runs, which
// lets the limiter be observed without wiring providers.
func postProcess(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/youtube/process", strings.NewReader(""))
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestBuildRouter_RateLimit_InProcess(t *testing.T) {
	cfg := baseConfig()
	cfg.RateLimitPerMin = 2
	h := app.BuildRouter(cfg, httpserver.NewServer(cfg, nil, nil, nil, nil), nil)

	assert.Equal(t, http.StatusBadRequest, postProcess(h, "10.0.0.1"))
	assert.Equal(t, http.StatusBadRequest, postProcess(h, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, postProcess(h, "10.0.0.1"))
	assert.Equal(t, http.StatusBadRequest, postProcess(h, "10.0.0.2"), "other clients keep their own budget")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "read endpoints are not limited")
}

func TestBuildRouter_RateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := baseConfig()
	cfg.RateLimitPerMin = 1
	h := app.BuildRouter(cfg, httpserver.NewServer(cfg, nil, nil, nil, nil), rdb)

	assert.Equal(t, http.StatusBadRequest, postProcess(h, "10.0.0.1"))

	req := httptest.NewRequest(http.MethodPost, "/youtube/process", strings.NewReader(""))
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// a second router sharing the same redis sees the same bucket
	other := app.BuildRouter(cfg, httpserver.NewServer(cfg, nil, nil, nil, nil), rdb)
	assert.Equal(t, http.StatusTooManyRequests, postProcess(other, "10.0.0.1"))
}
