package api

import (
	"context"

	"weather-relay/internal/domain/entity"
)

// ForecastGateway defines the calls made to the forecast provider
type ForecastGateway interface {
	// GetForecast performs a single GET for the request coordinates.
	// The call is bounded by ctx; no retry is attempted.
	GetForecast(ctx context.Context, req entity.FetchRequest) (entity.WeatherResult, error)

	// MaskedURL returns the URL GetForecast would call, with the API key replaced by a mask
	MaskedURL(req entity.FetchRequest) string
}
