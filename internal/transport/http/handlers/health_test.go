package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/healthz", NewHealthHandler().Status)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.StartedAt.IsZero() {
		t.Fatalf("response = %+v", resp)
	}
}

func TestHealthReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(
		WithReadinessCheck("database", func(context.Context) error { return nil }),
		WithReadinessCheck("redis", func(context.Context) error { return errors.New("connection refused") }),
	)

	r := gin.New()
	r.GET("/readyz", handler.Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 with a failing dependency", w.Code)
	}

	var resp ReadinessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "not ready" {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.Checks["database"] != "ok" || resp.Checks["redis"] != "connection refused" {
		t.Fatalf("checks = %+v", resp.Checks)
	}
}

func TestHealthReadinessAllHealthy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHealthHandler(
		WithReadinessCheck("database", func(context.Context) error { return nil }),
	)

	r := gin.New()
	r.GET("/readyz", handler.Readiness)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
