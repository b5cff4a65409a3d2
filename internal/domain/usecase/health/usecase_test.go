package health

import (
	"context"
	"testing"

	"weather-relay/internal/domain/gateway/transport"
	"weather-relay/internal/domain/model"
)

type staticGateway model.HealthStatus

func (s staticGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{Status: model.HealthStatus(s)}
}

var _ transport.HealthGateway = staticGateway("")

func TestCheckHealth(t *testing.T) {
	cases := []struct {
		redis, transport, want model.HealthStatus
	}{
		{model.StatusUp, model.StatusUp, model.StatusUp},
		{model.StatusUnknown, model.StatusUp, model.StatusUp},
		{model.StatusUp, model.StatusDown, model.StatusDown},
		{model.StatusDown, model.StatusUp, model.StatusDown},
	}

	for _, tc := range cases {
		got := NewHealthUseCase(staticGateway(tc.redis), staticGateway(tc.transport)).CheckHealth(context.Background())
		if got.Status != tc.want {
			t.Fatalf("redis=%s transport=%s: expected %s, got %s", tc.redis, tc.transport, tc.want, got.Status)
		}
	}
}
