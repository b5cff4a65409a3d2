// Plays the display front-end against a running relay: publishes one
// PIRATE_WEATHER_GET and waits for the matching PIRATE_WEATHER_DATA.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"weather-relay/internal/domain/entity"
	"weather-relay/internal/domain/model"
	"weather-relay/pkg/redis"
)

// MessageCounter keeps track of received messages
type MessageCounter struct {
	count int
	mu    sync.Mutex
}

func (mc *MessageCounter) Increment() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.count++
}

func (mc *MessageCounter) GetCount() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.count
}

// DisplayHandler prints every forecast it receives
type DisplayHandler struct {
	counter  *MessageCounter
	received chan struct{}
}

func (h *DisplayHandler) HandleMessage(ctx context.Context, channel string, message string) error {
	h.counter.Increment()
	fmt.Printf("Received %s (total: %d): %s\n", channel, h.counter.GetCount(), message)
	select {
	case h.received <- struct{}{}:
	default:
	}
	return nil
}

func main() {
	config := redis.NewRedisConfig().
		WithHost("localhost").
		WithPort(6379)

	client, err := redis.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create redis client: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pubSubConfig := redis.NewPubSubConfig().
		WithPoolSize(1).
		WithLogLevel(redis.InfoLevel)

	handler := &DisplayHandler{counter: &MessageCounter{}, received: make(chan struct{}, 1)}
	subscriber, err := redis.NewSubscriber(client.GetClient(), handler, pubSubConfig)
	if err != nil {
		log.Fatalf("Failed to create subscriber: %v", err)
	}
	defer subscriber.Close()

	if err := subscriber.Subscribe(ctx, model.WeatherDataNotification); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}
	go subscriber.Start(ctx)

	// give the subscription time to register before publishing
	time.Sleep(500 * time.Millisecond)

	publisher := redis.NewPublisher(client.GetClient(), pubSubConfig)
	req := entity.FetchRequest{
		APIKey:     os.Getenv("PIRATE_WEATHER_API_KEY"),
		Latitude:   "40.7",
		Longitude:  "-74.0",
		Units:      entity.UnitsUS,
		Language:   "en",
		InstanceID: "module_0",
	}
	if err := publisher.PublishJSON(ctx, model.FetchWeatherNotification, req); err != nil {
		log.Fatalf("Failed to publish request: %v", err)
	}
	fmt.Println("Published", model.FetchWeatherNotification)

	select {
	case <-handler.received:
	case <-ctx.Done():
		fmt.Println("No forecast received; check the relay logs for an error line")
	}
}
