package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"weather-relay/internal/domain/entity"
)

// NotificationHeader names the kafka header carrying the notification name
const NotificationHeader = "notification"

// MessageProducer writes one keyed record
type MessageProducer interface {
	Send(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

type kafkaNotifier struct {
	producer MessageProducer
}

// NewKafkaNotifier writes every notification as one record keyed by instance id
func NewKafkaNotifier(producer MessageProducer) Notifier {
	return &kafkaNotifier{producer: producer}
}

func (n *kafkaNotifier) Notify(ctx context.Context, notification string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to serialize %s payload: %w", notification, err)
	}

	header := kafka.Header{Key: NotificationHeader, Value: []byte(notification)}
	if err := n.producer.Send(ctx, recordKey(payload), value, header); err != nil {
		return fmt.Errorf("kafka send %s: %w", notification, err)
	}
	return nil
}

// recordKey keeps results of the same instance on the same partition
func recordKey(payload any) []byte {
	result, ok := payload.(entity.WeatherResult)
	if !ok || result.InstanceID() == nil {
		return nil
	}
	if s, ok := result.InstanceID().(string); ok {
		return []byte(s)
	}
	key, err := json.Marshal(result.InstanceID())
	if err != nil {
		return nil
	}
	return key
}
