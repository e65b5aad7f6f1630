package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/weekplate/backend/config"
	"github.com/pageza/weekplate/backend/internal/database"
	"github.com/pageza/weekplate/backend/internal/planner"
	"github.com/pageza/weekplate/backend/internal/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:     config.Test,
		ServerHost:      "localhost",
		ServerPort:      "0",
		ShutdownTimeout: time.Second,
		CORSOrigins:     []string{"http://localhost:5173"},
		PlanRateLimit:   10,
		ParseRateLimit:  5,
		RateLimitWindow: time.Minute,
		Timezone:        "Europe/Berlin",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	testhelpers.CreateRecipes(t, db, testhelpers.StandardPool()...)
	return New(testConfig(), Dependencies{
		DB:        db,
		Generator: planner.New(planner.NewSeededSource(1)),
	}, zap.NewNop())
}

func serve(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotContains(t, body["checks"], "redis")
}

func TestHealthReportsClosedDatabase(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	s := New(testConfig(), Dependencies{DB: db}, zap.NewNop())
	require.NoError(t, database.Close(db))

	w := serve(s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDAndCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGenerationIsMetered(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodPost, "/api/v1/meal-plans/generate", []byte(`{"week_start":"2025-01-06"}`))
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	text := w.Body.String()
	assert.True(t, strings.Contains(text, `weekplate_planner_runs_total{scope="week"} 1`), text)
	assert.True(t, strings.Contains(text, `weekplate_http_requests_total{method="POST",path="/api/v1/meal-plans/generate",status="200"} 1`))
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/api/v1/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	s := newTestServer(t)
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestStartReturnsAfterShutdown(t *testing.T) {
	s := newTestServer(t)

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()
	require.NoError(t, s.Shutdown(context.Background()))

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestShutdownBeforeStartIsNotLost(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.Shutdown(context.Background()))

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start kept serving after an earlier Shutdown")
	}
}

func TestLimitsRouteWithoutRedis(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, http.MethodGet, "/api/v1/limits", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Limits map[string]struct {
			Enabled   bool `json:"enabled"`
			Limit     int  `json:"limit"`
			Remaining int  `json:"remaining"`
		} `json:"limits"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Limits["plan_generation"].Enabled)
	assert.Equal(t, 10, body.Limits["plan_generation"].Remaining)
	assert.Equal(t, 5, body.Limits["recipe_parse"].Limit)
}
