package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/segmentio/kafka-go"

	"weather-relay/internal/domain/entity"
	"weather-relay/internal/domain/gateway/notify"
	"weather-relay/internal/domain/model"
	"weather-relay/internal/domain/usecase/relay"
	kafkapkg "weather-relay/pkg/kafka"
	"weather-relay/pkg/log"
	"weather-relay/pkg/msg"
)

// FetchProcessor turns inbound notifications into relay requests, whatever transport carried them
type FetchProcessor struct {
	relayUseCase relay.UseCase
}

func NewFetchProcessor(relayUseCase relay.UseCase) *FetchProcessor {
	return &FetchProcessor{
		relayUseCase: relayUseCase,
	}
}

// HandleNotification dispatches PIRATE_WEATHER_GET payloads and ignores every other notification
func (p *FetchProcessor) HandleNotification(ctx context.Context, name string, payload []byte) error {
	if name != model.FetchWeatherNotification {
		log.Debug(msg.GetMessage("processor.ignored", name))
		return nil
	}

	var req entity.FetchRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return errors.New(msg.GetMessage("processor.invalid-payload", name, err))
	}

	p.relayUseCase.HandleFetchRequest(ctx, req)
	return nil
}

// HandleRedisMessage implements redis.HandlerFunc; the channel is the notification name
func (p *FetchProcessor) HandleRedisMessage(ctx context.Context, channel string, message string) error {
	return p.HandleNotification(ctx, channel, []byte(message))
}

// HandleMessage implements the sqs.Handler interface
func (p *FetchProcessor) HandleMessage(ctx context.Context, message *types.Message) error {
	if message == nil || message.Body == nil {
		return fmt.Errorf("received nil message or message body")
	}
	return p.handleEnvelope(ctx, []byte(*message.Body))
}

// HandleKafkaMessage reads the notification name from the record header
func (p *FetchProcessor) HandleKafkaMessage(ctx context.Context, message kafka.Message) error {
	name := kafkapkg.HeaderValue(message, notify.NotificationHeader)
	if name == "" {
		name = model.FetchWeatherNotification
	}
	return p.HandleNotification(ctx, name, message.Value)
}

// HandleMQTTMessage expects an envelope on the request topic
func (p *FetchProcessor) HandleMQTTMessage(ctx context.Context, topic string, payload []byte) error {
	return p.handleEnvelope(ctx, payload)
}

// handleEnvelope accepts an Envelope, or a bare request body which is taken as PIRATE_WEATHER_GET
func (p *FetchProcessor) handleEnvelope(ctx context.Context, body []byte) error {
	var envelope model.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.New(msg.GetMessage("processor.invalid-payload", "envelope", err))
	}
	if envelope.Notification == "" {
		return p.HandleNotification(ctx, model.FetchWeatherNotification, body)
	}
	return p.HandleNotification(ctx, envelope.Notification, envelope.Payload)
}
