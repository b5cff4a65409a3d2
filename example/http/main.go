// Fetches one forecast synchronously and prints it, or the classified failure.
//
//	PIRATE_WEATHER_API_KEY=... go run ./example/http 40.7 -74.0
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"weather-relay/internal/domain/entity"
	"weather-relay/internal/domain/gateway/api"
	"weather-relay/internal/domain/gateway/notify"
	"weather-relay/internal/domain/usecase/relay"
	"weather-relay/pkg/log"
)

func main() {
	latitude, longitude := "40.7", "-74.0"
	if len(os.Args) == 3 {
		latitude, longitude = os.Args[1], os.Args[2]
	}

	req := entity.FetchRequest{
		APIKey:     os.Getenv("PIRATE_WEATHER_API_KEY"),
		Latitude:   entity.Coordinate(latitude),
		Longitude:  entity.Coordinate(longitude),
		Units:      entity.UnitsSI,
		Language:   "en",
		InstanceID: "example",
	}

	gateway := api.NewForecastGateway(api.ForecastGatewayOptions{})
	noop := notify.NotifierFunc(func(ctx context.Context, notification string, payload any) error { return nil })
	useCase := relay.NewRelayUseCase(gateway, noop, relay.Options{})

	log.Infof("GET %s", gateway.MaskedURL(req))

	result, err := useCase.Fetch(context.Background(), req)
	if err != nil {
		var protocolErr *relay.ProtocolError
		var transportErr *relay.TransportError
		switch {
		case errors.As(err, &protocolErr):
			log.Errorf("provider answered %d: %v", protocolErr.StatusCode, err)
		case errors.As(err, &transportErr) && transportErr.Timeout:
			log.Errorf("timed out: %v", err)
		default:
			log.Errorf("failed: %v", err)
		}
		os.Exit(1)
	}

	body, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(body))
}
