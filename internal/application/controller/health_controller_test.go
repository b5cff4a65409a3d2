package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"weather-relay/internal/domain/model"
)

type staticHealth model.HealthStatus

func (s staticHealth) CheckHealth(ctx context.Context) model.HealthResponse {
	return model.HealthResponse{Status: model.HealthStatus(s)}
}

func TestCheckHealthStatusCodes(t *testing.T) {
	for status, code := range map[model.HealthStatus]int{model.StatusUp: http.StatusOK, model.StatusDown: http.StatusServiceUnavailable} {
		e := echo.New()
		NewHealthController(e.Group(""), staticHealth(status)).InitHealthRoutes()

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != code {
			t.Fatalf("status %s: expected %d, got %d", status, code, rec.Code)
		}
	}
}
