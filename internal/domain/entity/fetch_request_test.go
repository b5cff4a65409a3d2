package entity

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFetchRequestAcceptsStringAndNumberCoordinates(t *testing.T) {
	var req FetchRequest
	payload := `{"apikey":"ABC123","latitude":"40.7","longitude":-74.0,"units":"us","language":"en","instanceId":"mod1"}`
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Latitude != "40.7" {
		t.Fatalf("unexpected latitude %q", req.Latitude)
	}
	if req.Longitude != "-74.0" {
		t.Fatalf("unexpected longitude %q", req.Longitude)
	}
	if req.InstanceID != "mod1" || req.Units != UnitsUS || req.Language != "en" {
		t.Fatalf("unexpected request %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestFetchRequestKeepsNumericInstanceID(t *testing.T) {
	var req FetchRequest
	if err := json.Unmarshal([]byte(`{"instanceId":7}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.InstanceID != float64(7) {
		t.Fatalf("unexpected instance id %#v", req.InstanceID)
	}
}

func TestFetchRequestRejectsObjectCoordinate(t *testing.T) {
	var req FetchRequest
	if err := json.Unmarshal([]byte(`{"latitude":{"x":1}}`), &req); err == nil {
		t.Fatal("expected error for object coordinate")
	}
}

func TestValidateOrder(t *testing.T) {
	cases := []struct {
		name string
		req  FetchRequest
		want error
	}{
		{"missing everything reports api key first", FetchRequest{}, ErrMissingAPIKey},
		{"blank api key", FetchRequest{APIKey: "  ", Latitude: "1", Longitude: "2"}, ErrMissingAPIKey},
		{"missing latitude", FetchRequest{APIKey: "k", Longitude: "2"}, ErrMissingCoordinates},
		{"missing longitude", FetchRequest{APIKey: "k", Latitude: "1"}, ErrMissingCoordinates},
		{"zero coordinates are present", FetchRequest{APIKey: "k", Latitude: "0", Longitude: "0"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUnitsIsValid(t *testing.T) {
	for _, u := range []Units{"", UnitsCA, UnitsUK, UnitsUS, UnitsSI} {
		if !u.IsValid() {
			t.Fatalf("expected %q to be valid", u)
		}
	}
	if Units("metric").IsValid() {
		t.Fatal("expected metric to be invalid")
	}
}

func TestWithInstanceID(t *testing.T) {
	result := WeatherResult{"currently": map[string]any{"temperature": 72.0}}.WithInstanceID("mod1")
	if result.InstanceID() != "mod1" {
		t.Fatalf("unexpected instance id %v", result.InstanceID())
	}

	var nilResult WeatherResult
	if nilResult.WithInstanceID("x").InstanceID() != "x" {
		t.Fatal("expected instance id on nil result")
	}
}
