package notify

import (
	"context"
	"fmt"
)

// JSONPublisher publishes a value serialized as JSON on a channel
type JSONPublisher interface {
	PublishJSON(ctx context.Context, channel string, message interface{}) error
}

type redisNotifier struct {
	publisher JSONPublisher
}

// NewRedisNotifier publishes every notification on the channel named after it
func NewRedisNotifier(publisher JSONPublisher) Notifier {
	return &redisNotifier{publisher: publisher}
}

func (n *redisNotifier) Notify(ctx context.Context, notification string, payload any) error {
	if err := n.publisher.PublishJSON(ctx, notification, payload); err != nil {
		return fmt.Errorf("redis publish %s: %w", notification, err)
	}
	return nil
}
