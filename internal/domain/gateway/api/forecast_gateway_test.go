package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"weather-relay/internal/domain/entity"
	httpclient "weather-relay/pkg/http"
)

func sampleRequest() entity.FetchRequest {
	return entity.FetchRequest{
		APIKey:     "ABC123",
		Latitude:   "40.7",
		Longitude:  "-74.0",
		Units:      entity.UnitsUS,
		Language:   "en",
		InstanceID: "mod1",
	}
}

func TestForecastPath(t *testing.T) {
	got := ForecastPath(sampleRequest())
	want := "/forecast/ABC123/40.7,-74.0?units=us&lang=en"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestForecastPathEscapesComponents(t *testing.T) {
	req := sampleRequest()
	req.Latitude = "40.7/../x"
	req.Language = "en&units=si"
	got := ForecastPath(req)
	if strings.Contains(got, "/../") || strings.Contains(got, "&units=si") {
		t.Fatalf("components were not escaped: %q", got)
	}
}

func TestForecastPathKeepsEmptyOptionalFields(t *testing.T) {
	req := sampleRequest()
	req.Units = ""
	req.Language = ""
	if got := ForecastPath(req); !strings.HasSuffix(got, "?units=&lang=") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestMaskedURLNeverContainsKey(t *testing.T) {
	gateway := NewForecastGateway(ForecastGatewayOptions{BaseURL: "https://api.example.test"})
	req := sampleRequest()
	req.APIKey = "secret key/with+chars"

	masked := gateway.MaskedURL(req)
	if strings.Contains(masked, "secret") {
		t.Fatalf("key leaked in %q", masked)
	}
	if !strings.HasPrefix(masked, "https://api.example.test/forecast/***/40.7,-74.0") {
		t.Fatalf("unexpected masked url %q", masked)
	}
}

func TestMaskForecastURL(t *testing.T) {
	got := maskForecastURL("https://api.pirateweather.net/forecast/ABC123/1,2?units=us")
	if got != "https://api.pirateweather.net/forecast/***/1,2?units=us" {
		t.Fatalf("unexpected masked url %q", got)
	}
}

func TestGetForecastSendsHeadersAndDecodes(t *testing.T) {
	var gotPath, gotUA, gotAccept string
	var gotClose bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotClose = r.Close
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"currently":{"temperature":72}}`))
	}))
	defer server.Close()

	gateway := NewForecastGateway(ForecastGatewayOptions{BaseURL: server.URL, UserAgent: "relay-test/1.0", Timeout: time.Second})
	result, err := gateway.GetForecast(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/forecast/ABC123/40.7,-74.0?units=us&lang=en" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotUA != "relay-test/1.0" || gotAccept != "application/json" || !gotClose {
		t.Fatalf("unexpected headers ua=%q accept=%q close=%v", gotUA, gotAccept, gotClose)
	}
	if _, ok := result["currently"]; !ok {
		t.Fatalf("unexpected result %v", result)
	}
}

func TestGetForecastReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	gateway := NewForecastGateway(ForecastGatewayOptions{BaseURL: server.URL})
	_, err := gateway.GetForecast(context.Background(), sampleRequest())

	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}
