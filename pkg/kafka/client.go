// Package kafka wraps segmentio/kafka-go readers and writers used as a
// notification transport: a consumer group reading one request topic and a
// writer producing to one result topic.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"weather-relay/pkg/log"
)

const (
	kafkaMinBytes = 1
	kafkaMaxBytes = 10_000_000 // 10MB
)

// Config holds the broker and topic settings
type Config struct {
	Brokers      []string
	GroupID      string
	InputTopic   string
	OutputTopic  string
	MaxWait      time.Duration
	RequiredAcks string
}

// MessageHandler processes one consumed message
type MessageHandler func(ctx context.Context, msg kafka.Message) error

// ParseBrokers splits a comma separated broker list
func ParseBrokers(value string) []string {
	var brokers []string
	for _, broker := range strings.Split(value, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// NewReader creates a consumer group reader for the input topic
func NewReader(cfg Config) *kafka.Reader {
	maxWait := cfg.MaxWait
	if maxWait == 0 {
		maxWait = 250 * time.Millisecond
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.InputTopic,
		MinBytes: kafkaMinBytes,
		MaxBytes: kafkaMaxBytes,
		MaxWait:  maxWait,
	})
}

// NewWriter creates a synchronous writer for the output topic, keyed by message key
func NewWriter(cfg Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OutputTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 5 * time.Millisecond,
		RequiredAcks: parseAcks(cfg.RequiredAcks),
		Compression:  kafka.Snappy,
	}
}

// Consumer reads messages and hands them to a MessageHandler, committing each one once handled
type Consumer struct {
	reader    *kafka.Reader
	handler   MessageHandler
	isRunning int32
	processed int64
}

// NewConsumer creates a consumer for the given reader
func NewConsumer(reader *kafka.Reader, handler MessageHandler) *Consumer {
	return &Consumer{reader: reader, handler: handler}
}

// Start blocks fetching messages until ctx is canceled.
// Handler errors are logged and the message is committed anyway: a bad request is never redelivered.
func (c *Consumer) Start(ctx context.Context) {
	atomic.StoreInt32(&c.isRunning, 1)
	defer atomic.StoreInt32(&c.isRunning, 0)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			log.Errorf("kafka fetch error on topic %s: %v", c.reader.Config().Topic, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if err := c.handler(ctx, msg); err != nil {
			log.Errorf("error processing kafka message at %s/%d@%d: %v", msg.Topic, msg.Partition, msg.Offset, err)
		} else {
			atomic.AddInt64(&c.processed, 1)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Errorf("kafka commit error: %v", err)
		}
	}
}

// IsRunning reports whether Start is active
func (c *Consumer) IsRunning() bool {
	return atomic.LoadInt32(&c.isRunning) == 1
}

// Processed returns the number of successfully handled messages
func (c *Consumer) Processed() int64 {
	return atomic.LoadInt64(&c.processed)
}

// Close closes the underlying reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Producer writes JSON payloads to the output topic
type Producer struct {
	writer *kafka.Writer
}

// NewProducer wraps a writer
func NewProducer(writer *kafka.Writer) *Producer {
	return &Producer{writer: writer}
}

// Send writes a single message
func (p *Producer) Send(ctx context.Context, key, value []byte, headers ...kafka.Header) error {
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value, Headers: headers}); err != nil {
		return fmt.Errorf("failed to write to topic %s: %w", p.writer.Topic, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *Producer) Close() error {
	return p.writer.Close()
}

func parseAcks(s string) kafka.RequiredAcks {
	switch strings.ToLower(s) {
	case "none":
		return kafka.RequireNone
	case "all":
		return kafka.RequireAll
	default:
		return kafka.RequireOne
	}
}

// HeaderValue returns the value of the first header named key
func HeaderValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
