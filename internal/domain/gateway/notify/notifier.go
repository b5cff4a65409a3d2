package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"weather-relay/internal/domain/model"
)

// Notifier delivers one named notification with its payload to the front-end
type Notifier interface {
	Notify(ctx context.Context, notification string, payload any) error
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, notification string, payload any) error

// Notify implements Notifier
func (f NotifierFunc) Notify(ctx context.Context, notification string, payload any) error {
	return f(ctx, notification, payload)
}

func marshalEnvelope(notification string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s payload: %w", notification, err)
	}
	return json.Marshal(model.Envelope{Notification: notification, Payload: body})
}
