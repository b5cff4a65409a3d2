package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"weather-relay/pkg/log"
)

// MessageHandler defines an interface that processes Redis pub/sub messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, channel string, message string) error
}

// HandlerFunc defines a function that handles Redis pub/sub messages
type HandlerFunc func(ctx context.Context, channel string, message string) error

var _ MessageHandler = HandlerFunc(nil)

// HandleMessage implements the MessageHandler interface for HandlerFunc
func (f HandlerFunc) HandleMessage(ctx context.Context, channel string, message string) error {
	return f(ctx, channel, message)
}

// LogLevel represents the logging level for the PubSub
type LogLevel int

const (
	// Silent disables all logs
	Silent LogLevel = iota
	// ErrorLevel logs only errors
	ErrorLevel
	// InfoLevel logs informational and error messages
	InfoLevel
)

// SubscriberHealthCheck represents the health check response for Redis subscriber
type SubscriberHealthCheck struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// PubSubConfig defines the configuration options for Redis pub/sub
type PubSubConfig struct {
	// PoolSize is the number of concurrent message listeners
	PoolSize int
	// LogLevel controls the logging verbosity
	LogLevel LogLevel
	// ReconnectDelay is the delay between reconnection attempts
	ReconnectDelay time.Duration
	// MaxReconnectAttempts is the maximum number of reconnection attempts
	MaxReconnectAttempts int
	// ChannelNamespace is the namespace for organizing channels
	ChannelNamespace string
}

// NewPubSubConfig creates a new pub/sub configuration with default values
func NewPubSubConfig() *PubSubConfig {
	return &PubSubConfig{
		PoolSize:             1,
		LogLevel:             InfoLevel,
		ReconnectDelay:       1 * time.Second,
		MaxReconnectAttempts: 10,
	}
}

// WithPoolSize sets the number of concurrent message listeners
func (psc *PubSubConfig) WithPoolSize(poolSize int) *PubSubConfig {
	if poolSize < 1 {
		panic(fmt.Sprintf("invalid pool size: %d, must be greater than 0", poolSize))
	}
	psc.PoolSize = poolSize
	return psc
}

// WithLogLevel sets the logging verbosity
func (psc *PubSubConfig) WithLogLevel(logLevel LogLevel) *PubSubConfig {
	psc.LogLevel = logLevel
	return psc
}

// WithChannelNamespace sets the namespace for organizing channels
func (psc *PubSubConfig) WithChannelNamespace(namespace string) *PubSubConfig {
	psc.ChannelNamespace = namespace
	return psc
}

// Publisher handles Redis publishing operations
type Publisher struct {
	client *redis.Client
	config *PubSubConfig
}

// NewPublisher creates a new publisher
func NewPublisher(client *redis.Client, config *PubSubConfig) *Publisher {
	if config == nil {
		config = NewPubSubConfig()
	}
	return &Publisher{
		client: client,
		config: config,
	}
}

// buildChannelName constructs the full channel name using ChannelNamespace::channelName format
func (p *Publisher) buildChannelName(channel string) string {
	return buildChannelName(p.config.ChannelNamespace, channel)
}

// PublishJSON publishes a JSON message to a channel
func (p *Publisher) PublishJSON(ctx context.Context, channel string, message interface{}) error {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message to JSON: %w", err)
	}
	return p.client.Publish(ctx, p.buildChannelName(channel), jsonData).Err()
}

// Subscriber listens to Redis pub/sub channels and hands every message to a MessageHandler
type Subscriber struct {
	client               *redis.Client
	channels             []string
	poolSize             int
	logLevel             LogLevel
	reconnectDelay       time.Duration
	maxReconnectAttempts int
	channelNamespace     string
	handler              MessageHandler
	isRunning            int32 // atomic flag to track if subscriber is running
	messagesProcessed    int64 // atomic counter for processed messages
	reconnectAttempts    int32 // atomic counter for reconnect attempts
	mu                   sync.RWMutex
	sub                  *redis.PubSub
	ctx                  context.Context
	cancel               context.CancelFunc
}

// NewSubscriber creates and returns a new Subscriber.
//
// If the provided PubSubConfig is nil or its fields are zero,
// the following defaults will be used:
//   - PoolSize: 1
//   - LogLevel: Silent
//   - ReconnectDelay: 1 second
//   - MaxReconnectAttempts: 10
func NewSubscriber(client *redis.Client, handler MessageHandler, config *PubSubConfig) (*Subscriber, error) {
	var poolSize = 1
	var logLevel = Silent
	var reconnectDelay = 1 * time.Second
	var maxReconnectAttempts = 10
	var channelNamespace string

	if config != nil {
		if config.PoolSize != 0 {
			poolSize = config.PoolSize
		}
		logLevel = config.LogLevel
		if config.ReconnectDelay != 0 {
			reconnectDelay = config.ReconnectDelay
		}
		if config.MaxReconnectAttempts != 0 {
			maxReconnectAttempts = config.MaxReconnectAttempts
		}
		channelNamespace = config.ChannelNamespace
	}

	if poolSize < 1 {
		return nil, fmt.Errorf("pool size must be greater than 0")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Subscriber{
		client:               client,
		poolSize:             poolSize,
		logLevel:             logLevel,
		reconnectDelay:       reconnectDelay,
		maxReconnectAttempts: maxReconnectAttempts,
		channelNamespace:     channelNamespace,
		handler:              handler,
		ctx:                  ctx,
		cancel:               cancel,
	}, nil
}

// Subscribe subscribes to one or more channels
func (s *Subscriber) Subscribe(ctx context.Context, channels ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	namespacedChannels := make([]string, len(channels))
	for i, channel := range channels {
		namespacedChannels[i] = buildChannelName(s.channelNamespace, channel)
	}
	s.channels = namespacedChannels

	if s.sub != nil {
		_ = s.sub.Close()
	}

	s.sub = s.client.Subscribe(ctx, namespacedChannels...)
	return nil
}

// Start begins listening for messages and processing them concurrently.
// It blocks until the provided context is canceled or Stop() is called.
func (s *Subscriber) Start(ctx context.Context) {
	s.mu.RLock()
	sub := s.sub
	s.mu.RUnlock()
	if sub == nil {
		s.logf(ErrorLevel, "not subscribed to any channels")
		return
	}

	atomic.StoreInt32(&s.isRunning, 1)
	defer atomic.StoreInt32(&s.isRunning, 0)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.listenMessages(combinedCtx)
		}()
	}

	wg.Wait()
}

// listenMessages listens for messages from Redis pub/sub
func (s *Subscriber) listenMessages(ctx context.Context) {
	for {
		s.mu.RLock()
		sub := s.sub
		s.mu.RUnlock()

		ch := sub.Channel()
	receive:
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					break receive
				}
				go s.handleMessage(ctx, msg)
			}
		}

		if ctx.Err() != nil {
			return
		}

		if atomic.LoadInt32(&s.reconnectAttempts) >= int32(s.maxReconnectAttempts) {
			s.logf(ErrorLevel, "max reconnection attempts reached, stopping subscriber")
			return
		}

		attempt := atomic.AddInt32(&s.reconnectAttempts, 1)
		s.logf(ErrorLevel, "channel closed, attempting to reconnect (attempt %d/%d)", attempt, s.maxReconnectAttempts)

		if err := s.reconnect(ctx); err != nil {
			s.logf(ErrorLevel, "failed to reconnect: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.reconnectDelay):
			}
			continue
		}
		atomic.StoreInt32(&s.reconnectAttempts, 0)
	}
}

// handleMessage processes a received message
func (s *Subscriber) handleMessage(ctx context.Context, msg *redis.Message) {
	if msg == nil {
		return
	}

	channel := stripNamespace(s.channelNamespace, msg.Channel)
	if err := s.handler.HandleMessage(ctx, channel, msg.Payload); err != nil {
		s.logf(ErrorLevel, "error processing message from channel %s: %v", msg.Channel, err)
		return
	}

	s.logf(InfoLevel, "successfully processed message from channel %s", msg.Channel)
	atomic.AddInt64(&s.messagesProcessed, 1)
}

// reconnect re-subscribes to the configured channels
func (s *Subscriber) reconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.channels) == 0 {
		return fmt.Errorf("no channels to subscribe to")
	}
	if s.sub != nil {
		_ = s.sub.Close()
	}
	s.sub = s.client.Subscribe(ctx, s.channels...)
	return nil
}

// Stop gracefully stops the subscriber by canceling its internal context.
// It's safe to call Stop() multiple times.
func (s *Subscriber) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Close stops the subscriber and releases the underlying subscription.
func (s *Subscriber) Close() error {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.StoreInt32(&s.isRunning, 0)
	if s.sub != nil {
		return s.sub.Close()
	}
	return nil
}

// HealthCheck returns the health status and details of the subscriber
func (s *Subscriber) HealthCheck() SubscriberHealthCheck {
	isRunning := atomic.LoadInt32(&s.isRunning) == 1
	redisAvailable := s.testRedisConnectivity()

	status := StatusDown
	if isRunning && redisAvailable {
		status = StatusUp
	}

	s.mu.RLock()
	channels := fmt.Sprintf("%v", s.channels)
	s.mu.RUnlock()

	return SubscriberHealthCheck{
		Status: status,
		Details: map[string]string{
			"pool_size":          fmt.Sprintf("%d", s.poolSize),
			"is_running":         fmt.Sprintf("%t", isRunning),
			"messages_processed": fmt.Sprintf("%d", atomic.LoadInt64(&s.messagesProcessed)),
			"reconnect_attempts": fmt.Sprintf("%d", atomic.LoadInt32(&s.reconnectAttempts)),
			"redis_available":    fmt.Sprintf("%t", redisAvailable),
			"channels":           channels,
		},
	}
}

// testRedisConnectivity tests if Redis is accessible
func (s *Subscriber) testRedisConnectivity() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}

// logf logs messages based on the configured log level
func (s *Subscriber) logf(level LogLevel, format string, v ...interface{}) {
	if s.logLevel == Silent {
		return
	}
	if level == ErrorLevel {
		log.Errorf(format, v...)
	}
	if level == InfoLevel && s.logLevel == InfoLevel {
		log.Infof(format, v...)
	}
}

// ParseLogLevel converts string log level to LogLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return Silent
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func buildChannelName(namespace, channel string) string {
	if namespace != "" {
		return namespace + "::" + channel
	}
	return channel
}

func stripNamespace(namespace, channel string) string {
	if namespace == "" {
		return channel
	}
	return strings.TrimPrefix(channel, namespace+"::")
}
