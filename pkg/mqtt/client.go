// Package mqtt builds a paho MQTT client that subscribes to one request topic
// and publishes to arbitrary topics.
package mqtt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"weather-relay/pkg/log"
)

// Config holds the broker settings
type Config struct {
	BrokerURL    string
	ClientID     string
	Username     string
	Password     string
	RequestTopic string
	QoS          byte
}

// MessageHandler processes one message received on the request topic
type MessageHandler func(ctx context.Context, topic string, payload []byte) error

// Client is a connected-on-demand MQTT client
type Client struct {
	cfg       Config
	client    mqtt.Client
	connected int32
	processed int64
}

// NewClient builds (but does not connect) a client; handler runs for every request message
func NewClient(ctx context.Context, cfg Config, handler MessageHandler) *Client {
	c := &Client{cfg: cfg}

	onMessage := func(_ mqtt.Client, msg mqtt.Message) {
		go func() {
			if err := handler(ctx, msg.Topic(), msg.Payload()); err != nil {
				log.Errorf("error processing mqtt message from %s: %v", msg.Topic(), err)
				return
			}
			atomic.AddInt64(&c.processed, 1)
		}()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetOrderMatters(false).
		SetCleanSession(false).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	opts.OnConnect = func(mc mqtt.Client) {
		atomic.StoreInt32(&c.connected, 1)
		log.Infof("connected to mqtt broker: %s", cfg.BrokerURL)
		if token := mc.Subscribe(cfg.RequestTopic, cfg.QoS, onMessage); token.Wait() && token.Error() != nil {
			log.Errorf("mqtt subscribe error: %v", token.Error())
		} else {
			log.Infof("subscribed to topic: %s (QoS %d)", cfg.RequestTopic, cfg.QoS)
		}
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		atomic.StoreInt32(&c.connected, 0)
		log.Errorf("mqtt connection lost: %v", err)
	}

	c.client = mqtt.NewClient(opts)
	return c
}

// ConnectWithBackoff connects, doubling the delay after every failure up to max
func (c *Client) ConnectWithBackoff(ctx context.Context, start, max time.Duration) error {
	backoff := start
	for {
		token := c.client.Connect()
		if token.Wait() && token.Error() == nil {
			return nil
		}
		log.Errorf("mqtt connect error: %v; retrying in %s", token.Error(), backoff)
		select {
		case <-time.After(backoff):
			if backoff < max {
				backoff *= 2
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Publish sends payload to topic and waits for the broker acknowledgement
func (c *Client) Publish(ctx context.Context, topic string, payload []byte) error {
	token := c.client.Publish(topic, c.cfg.QoS, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsConnected reports the connection state
func (c *Client) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Processed returns the number of successfully handled messages
func (c *Client) Processed() int64 {
	return atomic.LoadInt64(&c.processed)
}

// Disconnect closes the connection, waiting up to quiesce milliseconds
func (c *Client) Disconnect(quiesce uint) {
	c.client.Disconnect(quiesce)
}
