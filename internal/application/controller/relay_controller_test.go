package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"weather-relay/internal/domain/entity"
	"weather-relay/internal/domain/model"
)

type recordingRelay struct {
	requests []entity.FetchRequest
}

func (r *recordingRelay) HandleFetchRequest(ctx context.Context, req entity.FetchRequest) {
	r.requests = append(r.requests, req)
}

func (r *recordingRelay) Fetch(ctx context.Context, req entity.FetchRequest) (entity.WeatherResult, error) {
	return nil, nil
}

func (r *recordingRelay) Wait() {}

func postFetch(t *testing.T, relay *recordingRelay, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	NewRelayController(e.Group("/api"), relay).InitRelayRoutes()

	req := httptest.NewRequest(http.MethodPost, "/api/weather/fetch", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestFetchWeatherAccepted(t *testing.T) {
	relay := &recordingRelay{}
	rec := postFetch(t, relay, `{"apikey":"ABC123","latitude":"40.7","longitude":-74.0,"units":"us","language":"en","instanceId":"mod1"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var accepted model.FetchAccepted
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if accepted.InstanceID != "mod1" || accepted.RequestID == "" {
		t.Fatalf("unexpected body %+v", accepted)
	}
	if len(relay.requests) != 1 || relay.requests[0].Longitude != "-74.0" {
		t.Fatalf("unexpected requests %+v", relay.requests)
	}
}

func TestFetchWeatherLeavesRequiredFieldsToRelay(t *testing.T) {
	relay := &recordingRelay{}
	rec := postFetch(t, relay, `{"latitude":"40.7","instanceId":"mod1"}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(relay.requests) != 1 {
		t.Fatal("expected the request to reach the relay")
	}
}

func TestFetchWeatherRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{"apikey":`,
		"units":          `{"apikey":"k","latitude":"1","longitude":"2","units":"imperial"}`,
		"language":       `{"apikey":"k","latitude":"1","longitude":"2","language":"not a tag!"}`,
		"coordinate":     `{"apikey":"k","latitude":{"x":1},"longitude":"2"}`,
	}

	for name, body := range cases {
		relay := &recordingRelay{}
		rec := postFetch(t, relay, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
		if len(relay.requests) != 0 {
			t.Fatalf("%s: expected no dispatch", name)
		}
	}
}
