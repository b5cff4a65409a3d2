package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/segmentio/kafka-go"

	"weather-relay/internal/application/processor"
	"weather-relay/internal/domain/gateway/notify"
	"weather-relay/internal/domain/gateway/transport"
	"weather-relay/internal/domain/model"
	"weather-relay/internal/infra/aws"
	kafkapkg "weather-relay/pkg/kafka"
	"weather-relay/pkg/log"
	"weather-relay/pkg/mqtt"
	"weather-relay/pkg/redis"
	"weather-relay/pkg/resource"
	"weather-relay/pkg/sqs"
)

const (
	transportRedis = "redis"
	transportSQS   = "sqs"
	transportKafka = "kafka"
	transportMQTT  = "mqtt"
)

// lazyProcessor lets inbound clients be built before the relay they feed
type lazyProcessor struct {
	mu        sync.RWMutex
	processor *processor.FetchProcessor
}

func (l *lazyProcessor) set(p *processor.FetchProcessor) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.processor = p
}

func (l *lazyProcessor) get() (*processor.FetchProcessor, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.processor == nil {
		return nil, fmt.Errorf("processor not ready")
	}
	return l.processor, nil
}

// bus is the active notification transport: one outbound notifier and one inbound loop
type bus struct {
	notifier notify.Notifier
	start    func(ctx context.Context)
	close    func()
}

func newTransport(ctx context.Context, kind string, redisClient *redis.Client, processors *lazyProcessor, health transport.RegistryHealthGateway) (*bus, error) {
	switch kind {
	case transportRedis:
		return newRedisTransport(ctx, redisClient, processors, health)
	case transportSQS:
		return newSQSTransport(ctx, processors, health)
	case transportKafka:
		return newKafkaTransport(processors, health), nil
	case transportMQTT:
		return newMQTTTransport(ctx, processors, health), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", kind)
	}
}

func newRedisTransport(ctx context.Context, client *redis.Client, processors *lazyProcessor, health transport.RegistryHealthGateway) (*bus, error) {
	pubSubConfig := redis.NewPubSubConfig().
		WithPoolSize(resource.GetInt("app.transport.redis.pool-size")).
		WithLogLevel(redis.ParseLogLevel(resource.GetString("app.transport.redis.log-level"))).
		WithChannelNamespace(resource.GetString("app.transport.redis.namespace"))

	handler := redis.HandlerFunc(func(ctx context.Context, channel string, message string) error {
		p, err := processors.get()
		if err != nil {
			return err
		}
		return p.HandleRedisMessage(ctx, channel, message)
	})

	subscriber, err := redis.NewSubscriber(client.GetClient(), handler, pubSubConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis subscriber: %w", err)
	}
	if err := subscriber.Subscribe(ctx, model.FetchWeatherNotification); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", model.FetchWeatherNotification, err)
	}
	health.Register("subscriber", transport.SubscriberProbe(subscriber))

	return &bus{
		notifier: notify.NewRedisNotifier(redis.NewPublisher(client.GetClient(), pubSubConfig)),
		start:    subscriber.Start,
		close: func() {
			if err := subscriber.Close(); err != nil {
				log.Errorf("Failed to close redis subscriber: %v", err)
			}
		},
	}, nil
}

func newSQSTransport(ctx context.Context, processors *lazyProcessor, health transport.RegistryHealthGateway) (*bus, error) {
	client, err := aws.NewSqsClient(ctx)
	if err != nil {
		return nil, err
	}

	handler := sqs.HandlerFunc(func(ctx context.Context, message *types.Message) error {
		p, err := processors.get()
		if err != nil {
			return err
		}
		return p.HandleMessage(ctx, message)
	})

	worker, err := sqs.NewWorker(ctx, client, resource.GetString("app.transport.sqs.request-queue"), handler, &sqs.WorkerConfig{
		WaitTimeSeconds: int32(resource.GetInt("app.transport.sqs.wait-time-seconds")),
		PoolSize:        resource.GetInt("app.transport.sqs.pool-size"),
		LogLevel:        sqs.ParseLogLevel(resource.GetString("app.transport.sqs.log-level")),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqs worker: %w", err)
	}
	health.Register("worker", transport.WorkerProbe(worker))

	return &bus{
		notifier: notify.NewSQSNotifier(sqs.NewSender(client), resource.GetString("app.transport.sqs.result-queue")),
		start:    worker.Start,
		close:    func() {},
	}, nil
}

func newKafkaTransport(processors *lazyProcessor, health transport.RegistryHealthGateway) *bus {
	cfg := kafkapkg.Config{
		Brokers:      kafkapkg.ParseBrokers(resource.GetString("app.transport.kafka.brokers")),
		GroupID:      resource.GetString("app.transport.kafka.group-id"),
		InputTopic:   resource.GetString("app.transport.kafka.request-topic"),
		OutputTopic:  resource.GetString("app.transport.kafka.result-topic"),
		RequiredAcks: resource.GetString("app.transport.kafka.required-acks"),
	}

	consumer := kafkapkg.NewConsumer(kafkapkg.NewReader(cfg), func(ctx context.Context, message kafka.Message) error {
		p, err := processors.get()
		if err != nil {
			return err
		}
		return p.HandleKafkaMessage(ctx, message)
	})
	producer := kafkapkg.NewProducer(kafkapkg.NewWriter(cfg))
	health.Register("consumer", transport.ConsumerProbe(consumer))

	return &bus{
		notifier: notify.NewKafkaNotifier(producer),
		start:    consumer.Start,
		close: func() {
			if err := consumer.Close(); err != nil {
				log.Errorf("Failed to close kafka consumer: %v", err)
			}
			if err := producer.Close(); err != nil {
				log.Errorf("Failed to close kafka producer: %v", err)
			}
		},
	}
}

func newMQTTTransport(ctx context.Context, processors *lazyProcessor, health transport.RegistryHealthGateway) *bus {
	client := mqtt.NewClient(ctx, mqtt.Config{
		BrokerURL:    resource.GetString("app.transport.mqtt.broker-url"),
		ClientID:     resource.GetString("app.transport.mqtt.client-id"),
		Username:     resource.GetString("app.transport.mqtt.username"),
		Password:     resource.GetString("app.transport.mqtt.password"),
		RequestTopic: resource.GetString("app.transport.mqtt.request-topic"),
		QoS:          byte(resource.GetInt("app.transport.mqtt.qos")),
	}, func(ctx context.Context, topic string, payload []byte) error {
		p, err := processors.get()
		if err != nil {
			return err
		}
		return p.HandleMQTTMessage(ctx, topic, payload)
	})
	health.Register("client", transport.MQTTProbe(client))

	return &bus{
		notifier: notify.NewMQTTNotifier(client, resource.GetString("app.transport.mqtt.result-topic")),
		start: func(ctx context.Context) {
			if err := client.ConnectWithBackoff(ctx, time.Second, 30*time.Second); err != nil {
				log.Errorf("Failed to connect to mqtt broker: %v", err)
			}
		},
		close: func() { client.Disconnect(250) },
	}
}
