package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// QueueSender sends a JSON body to a named queue
type QueueSender interface {
	SendMessage(ctx context.Context, queueName string, body any) error
}

type sqsNotifier struct {
	sender    QueueSender
	queueName string
}

// NewSQSNotifier sends every notification, wrapped in an envelope, to queueName
func NewSQSNotifier(sender QueueSender, queueName string) Notifier {
	return &sqsNotifier{sender: sender, queueName: queueName}
}

func (n *sqsNotifier) Notify(ctx context.Context, notification string, payload any) error {
	body, err := marshalEnvelope(notification, payload)
	if err != nil {
		return err
	}
	if err := n.sender.SendMessage(ctx, n.queueName, json.RawMessage(body)); err != nil {
		return fmt.Errorf("sqs send %s: %w", notification, err)
	}
	return nil
}
