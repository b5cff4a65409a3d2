package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAPIKey is returned when a request carries no API key
	ErrMissingAPIKey = errors.New("api key is required")
	// ErrMissingCoordinates is returned when latitude or longitude is absent
	ErrMissingCoordinates = errors.New("latitude and longitude are required")
)

// Coordinate is a latitude or longitude sent either as a JSON string or a JSON number.
// The textual form is kept untouched so it can be forwarded as received.
type Coordinate string

// UnmarshalJSON accepts "40.7", 40.7 and null
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("coordinate must be a string or a number: %w", err)
	}
	*c = Coordinate(n.String())
	return nil
}

// String returns the coordinate text
func (c Coordinate) String() string {
	return string(c)
}

// FetchRequest asks for the forecast of one coordinate pair on behalf of one display instance
type FetchRequest struct {
	APIKey     string     `json:"apikey"`
	Latitude   Coordinate `json:"latitude"`
	Longitude  Coordinate `json:"longitude"`
	Units      Units      `json:"units"`
	Language   string     `json:"language"`
	InstanceID any        `json:"instanceId"`
}

// Validate checks the required fields in order: API key first, then coordinates
func (r FetchRequest) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if r.Latitude == "" || r.Longitude == "" {
		return ErrMissingCoordinates
	}
	return nil
}
