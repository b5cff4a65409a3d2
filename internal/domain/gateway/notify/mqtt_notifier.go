package notify

import (
	"context"
	"fmt"
)

// TopicPublisher publishes raw bytes on a topic
type TopicPublisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type mqttNotifier struct {
	publisher TopicPublisher
	topic     string
}

// NewMQTTNotifier publishes every notification, wrapped in an envelope, on topic
func NewMQTTNotifier(publisher TopicPublisher, topic string) Notifier {
	return &mqttNotifier{publisher: publisher, topic: topic}
}

func (n *mqttNotifier) Notify(ctx context.Context, notification string, payload any) error {
	body, err := marshalEnvelope(notification, payload)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, n.topic, body); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", notification, err)
	}
	return nil
}
