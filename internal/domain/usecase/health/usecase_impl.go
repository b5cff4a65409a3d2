package health

import (
	"context"

	"weather-relay/internal/domain/gateway/transport"
	"weather-relay/internal/domain/model"
)

type healthUseCase struct {
	redisGateway     transport.HealthGateway
	transportGateway transport.HealthGateway
}

func NewHealthUseCase(redisGateway transport.HealthGateway, transportGateway transport.HealthGateway) UseCase {
	return &healthUseCase{
		redisGateway:     redisGateway,
		transportGateway: transportGateway,
	}
}

// CheckHealth is DOWN when any component is DOWN; UNKNOWN components do not fail the check
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	redisHealth := useCase.redisGateway.Health(ctx)
	transportHealth := useCase.transportGateway.Health(ctx)

	overallStatus := model.StatusUp
	if redisHealth.Status == model.StatusDown || transportHealth.Status == model.StatusDown {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:    overallStatus,
		Transport: transportHealth,
		Redis:     redisHealth,
	}
}
