// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/tomtom215/landmark/docs"
	"github.com/tomtom215/landmark/internal/analytics"
	"github.com/tomtom215/landmark/internal/config"
	"github.com/tomtom215/landmark/internal/metrics"
	"github.com/tomtom215/landmark/internal/middleware"
	"github.com/tomtom215/landmark/internal/store/memstore"
)

func TestRouter_UnknownRouteAndMethod(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Not Found"}`, rec.Body.String())

	rec = do(t, srv, http.MethodDelete, "/api/locations", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/load-data", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Headers(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/locations", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRouter_CORS(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/load-data", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/count-per-type", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSRestrictedOrigins(t *testing.T) {
	t.Parallel()
	svc := analytics.NewService(memstore.New(), nil)
	mw := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		CORSOrigins:       []string{"https://dashboard.example.com"},
		RateLimitDisabled: true,
	})
	srv := NewRouter(NewHandler(svc, nil), mw).SetupChi()

	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()
	svc := analytics.NewService(memstore.New(), nil)
	mw := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		RateLimitReqs:   2,
		RateLimitWindow: time.Minute,
	})
	srv := NewRouter(NewHandler(svc, nil), mw).SetupChi()

	hits := metrics.APIRateLimitHits.WithLabelValues("/api/incomplete")
	before := testutil.ToFloat64(hits)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = do(t, srv, http.MethodGet, "/api/incomplete", "")
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.JSONEq(t, `{"message":"Too Many Requests"}`, last.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(hits)-before)

	// Probes have their own, far larger budget.
	rec := do(t, srv, http.MethodGet, "/api/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_GzipLocations(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/load-data", loadBody).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/locations", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	_ = do(t, srv, http.MethodGet, "/api/count-per-type", "")

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "api_requests_total"))
	assert.Contains(t, rec.Body.String(), `endpoint="/api/count-per-type"`)
}

func TestRouter_SwaggerDocs(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"title": "Landmark API"`)
	assert.Contains(t, body, `"basePath": "/api"`)
	for _, path := range []string{"/load-data", "/locations", "/count-per-type", "/average-rating", "/top-reviewed", "/incomplete", "/summary", "/health/ready"} {
		assert.Contains(t, body, `"`+path+`"`)
	}

	rec = do(t, srv, http.MethodGet, "/swagger/index.html", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFromSecurity(nil)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 100, cfg.RateLimitRequests)

	cfg = ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		CORSOrigins:       []string{"https://a.example"},
		RateLimitReqs:     7,
		RateLimitWindow:   time.Second,
		RateLimitDisabled: true,
	})
	assert.Equal(t, []string{"https://a.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 7, cfg.RateLimitRequests)
	assert.Equal(t, time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.RateLimitDisabled)
}
