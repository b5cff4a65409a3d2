package model

import "encoding/json"

// Envelope carries a notification over transports without a native subject, like SQS queues
type Envelope struct {
	Notification string          `json:"notification"`
	Payload      json.RawMessage `json:"payload"`
}
