package transport

import (
	"context"
	"testing"

	"weather-relay/internal/domain/model"
)

func TestHealthWithoutProbesIsUnknown(t *testing.T) {
	health := NewHealthGateway("redis").Health(context.Background())
	if health.Status != model.StatusUnknown {
		t.Fatalf("expected UNKNOWN, got %s", health.Status)
	}
}

func TestHealthIsDownWhenAnyProbeIsDown(t *testing.T) {
	gateway := NewHealthGateway("sqs")
	gateway.Register("consumer", ProbeFunc(func() (bool, map[string]string) {
		return true, map[string]string{"pool_size": "1"}
	}))
	gateway.Register("publisher", ProbeFunc(func() (bool, map[string]string) {
		return false, nil
	}))

	health := gateway.Health(context.Background())
	if health.Status != model.StatusDown {
		t.Fatalf("expected DOWN, got %s", health.Status)
	}
	if health.Details["consumer_pool_size"] != "1" || health.Details["probes_down"] != "1" || health.Details["kind"] != "sqs" {
		t.Fatalf("unexpected details %v", health.Details)
	}

	gateway.Unregister("publisher")
	if health := gateway.Health(context.Background()); health.Status != model.StatusUp {
		t.Fatalf("expected UP after unregistering, got %s", health.Status)
	}
}

func TestRedisHealthWithoutCheckerIsUnknown(t *testing.T) {
	if health := NewRedisHealthGateway(nil).Health(context.Background()); health.Status != model.StatusUnknown {
		t.Fatalf("expected UNKNOWN, got %s", health.Status)
	}
}
