package transport

import (
	"context"
	"strconv"

	"weather-relay/internal/domain/model"
	"weather-relay/pkg/kafka"
	"weather-relay/pkg/mqtt"
	"weather-relay/pkg/redis"
	"weather-relay/pkg/sqs"
)

// SubscriberProbe reports a redis pub/sub subscriber
func SubscriberProbe(subscriber *redis.Subscriber) Probe {
	return ProbeFunc(func() (bool, map[string]string) {
		check := subscriber.HealthCheck()
		return check.Status == redis.StatusUp, check.Details
	})
}

// WorkerProbe reports an SQS worker
func WorkerProbe(worker *sqs.Worker) Probe {
	return ProbeFunc(func() (bool, map[string]string) {
		check := worker.HealthCheck()
		return check.Status == sqs.StatusUp, check.Details
	})
}

// ConsumerProbe reports a kafka consumer
func ConsumerProbe(consumer *kafka.Consumer) Probe {
	return ProbeFunc(func() (bool, map[string]string) {
		return consumer.IsRunning(), map[string]string{
			"is_running":         strconv.FormatBool(consumer.IsRunning()),
			"messages_processed": strconv.FormatInt(consumer.Processed(), 10),
		}
	})
}

// MQTTProbe reports an MQTT client connection
func MQTTProbe(client *mqtt.Client) Probe {
	return ProbeFunc(func() (bool, map[string]string) {
		return client.IsConnected(), map[string]string{
			"connected":          strconv.FormatBool(client.IsConnected()),
			"messages_processed": strconv.FormatInt(client.Processed(), 10),
		}
	})
}

type redisHealthGateway struct {
	checker *redis.HealthChecker
}

// NewRedisHealthGateway reports redis reachability; a nil checker means redis is not in use
func NewRedisHealthGateway(checker *redis.HealthChecker) HealthGateway {
	return &redisHealthGateway{checker: checker}
}

func (gateway *redisHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	if gateway.checker == nil {
		return model.ComponentHealthStatus{
			Status:  model.StatusUnknown,
			Details: map[string]string{"message": "Redis not configured"},
		}
	}

	check := gateway.checker.HealthCheck(ctx)
	status := model.StatusDown
	if check.Status == redis.StatusUp {
		status = model.StatusUp
	}
	return model.ComponentHealthStatus{Status: status, Details: check.Details}
}
