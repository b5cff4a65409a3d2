package relay

import (
	"errors"
	"strconv"
	"time"

	"weather-relay/internal/domain/entity"
	"weather-relay/pkg/msg"
)

// ConfigError rejects a request before any network call
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	if errors.Is(e.Err, entity.ErrMissingAPIKey) {
		return msg.GetMessage("relay.error.no-api-key")
	}
	return msg.GetMessage("relay.error.no-coordinates")
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransportError means no response was received
type TransportError struct {
	Timeout bool
	After   time.Duration
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return msg.GetMessage("relay.error.timeout", e.After, e.Err)
	}
	return msg.GetMessage("relay.error.network", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is a non-2xx answer from the provider
type ProtocolError struct {
	StatusCode int
	Reason     string
}

func (e *ProtocolError) Error() string {
	key := "relay.status." + strconv.Itoa(e.StatusCode)
	if msg.Exists(key) {
		return msg.GetMessage(key)
	}
	return msg.GetMessage("relay.status.other", e.StatusCode, e.Reason)
}

// PayloadError is a 2xx answer whose body is not a JSON object
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return msg.GetMessage("relay.error.invalid-json", e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// DeliveryError means the result could not be handed to the notifier
type DeliveryError struct {
	Notification string
	Err          error
}

func (e *DeliveryError) Error() string {
	return msg.GetMessage("relay.error.notify", e.Notification, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
