package schedule

import (
	"context"
	"testing"
	"time"

	"weather-relay/internal/domain/entity"
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

func TestExecuteScheduledTaskDispatchesEveryTarget(t *testing.T) {
	relay := &recordingRelay{}
	scheduler := NewPollScheduler(relay, nil, &PollSchedulerConfig{
		CronExpression: "*/10 * * * *",
		APIKey:         "ABC123",
		Targets: []Target{
			{InstanceID: "module_0", Latitude: "40.7", Longitude: "-74.0", Units: "us", Language: "en"},
			{InstanceID: "module_1", Latitude: "51.5", Longitude: "-0.1", Units: "uk"},
		},
	})

	scheduler.ExecuteScheduledTask()

	if len(relay.requests) != 2 {
		t.Fatalf("expected two requests, got %d", len(relay.requests))
	}
	first := relay.requests[0]
	if first.APIKey != "ABC123" || first.Latitude != "40.7" || first.Units != entity.UnitsUS || first.InstanceID != "module_0" {
		t.Fatalf("unexpected request %+v", first)
	}
	if relay.requests[1].Language != "" {
		t.Fatalf("expected empty language to pass through, got %q", relay.requests[1].Language)
	}
}

func TestLockDurationsFallBackToDefaults(t *testing.T) {
	scheduler := NewPollScheduler(&recordingRelay{}, nil, &PollSchedulerConfig{})
	if scheduler.getLockTTL() != 10*time.Minute || scheduler.getRefreshInterval() != time.Minute {
		t.Fatalf("unexpected defaults %s %s", scheduler.getLockTTL(), scheduler.getRefreshInterval())
	}
}
