package relay

import (
	"context"

	"weather-relay/internal/domain/entity"
)

type UseCase interface {
	// HandleFetchRequest validates the request and dispatches the forecast call without blocking.
	// The outcome is either one PIRATE_WEATHER_DATA notification or one error line.
	HandleFetchRequest(ctx context.Context, req entity.FetchRequest)

	// Fetch performs the timeout-bounded forecast call and returns the result tagged with the instance id
	Fetch(ctx context.Context, req entity.FetchRequest) (entity.WeatherResult, error)

	// Wait blocks until every dispatched request has finished
	Wait()
}
