// Package session runs the single MQTT session of one tool invocation:
// one connection, one operation (publish or subscribe-and-print), one
// teardown. The MQTT protocol itself is owned by the underlying paho
// client library; this package drives it as an opaque transport.
package session

import (
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Policy constants of the tools. These are fixed, not negotiated.
const (
	// KeepAlive is the maximum idle time before the client pings the broker.
	KeepAlive = 60 * time.Second

	// PollInterval paces the subscribe loop's shutdown checks.
	PollInterval = 1 * time.Second

	// QoS is the fixed delivery level: 0, at most once.
	QoS byte = 0

	connectTimeout    = 10 * time.Second
	tokenTimeout      = 5 * time.Second
	disconnectQuiesce = 250 // milliseconds
)

// Options configure one broker session.
type Options struct {
	// BrokerURL is the broker endpoint, e.g. "tcp://localhost:1883".
	BrokerURL string

	// ClientID identifies the client to the broker. Auto-generated when empty.
	ClientID string

	// Username and Password are the optional broker credentials. An empty
	// Username leaves authentication unset.
	Username string
	Password string

	Logger *slog.Logger
}

// Client wraps one paho connection. It is owned by the single running
// invocation and must be released with Close on every exit path.
type Client struct {
	paho pahomqtt.Client
	log  *slog.Logger
	lost chan error
}

// Message is one received MQTT message, payload treated as opaque bytes.
type Message struct {
	ID       uint16
	Topic    string
	Retained bool
	Payload  []byte
}

// Handler consumes one received message. It runs synchronously on the
// client's receive path and must not block or perform long-running work.
type Handler func(msg Message)

// Dial creates a client and connects it to the broker. Auto-reconnect and
// connect retries are disabled: every invocation is a fresh, short-lived
// process and a lost connection ends the run.
func Dial(opts Options) (*Client, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	clientID := opts.ClientID
	if clientID == "" {
		clientID = "mqtt-tools-" + uuid.NewString()
	}

	c := &Client{
		log:  log,
		lost: make(chan error, 1),
	}

	popts := pahomqtt.NewClientOptions()
	popts.AddBroker(opts.BrokerURL)
	popts.SetClientID(clientID)
	if opts.Username != "" {
		popts.SetUsername(opts.Username)
		popts.SetPassword(opts.Password)
	}
	popts.SetCleanSession(true)
	popts.SetKeepAlive(KeepAlive)
	popts.SetConnectTimeout(connectTimeout)
	popts.SetAutoReconnect(false)
	popts.SetConnectRetry(false)
	popts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		select {
		case c.lost <- err:
		default:
		}
	})

	c.paho = pahomqtt.NewClient(popts)

	token := c.paho.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	log.Debug("connected to broker", "broker", opts.BrokerURL, "client_id", clientID)
	return c, nil
}

// Lost yields the error of an unrecoverable connection failure. The
// channel is buffered; at most one failure is reported per session.
func (c *Client) Lost() <-chan error {
	return c.lost
}

// Publish sends one message to the topic at QoS 0, honoring retain.
func (c *Client) Publish(topic string, payload []byte, retain bool) error {
	token := c.paho.Publish(topic, QoS, retain, payload)
	if !token.WaitTimeout(tokenTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, tokenTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	c.log.Debug("published message", "topic", topic, "bytes", len(payload), "retain", retain)
	return nil
}

// Subscribe registers the handler for the topic at QoS 0.
func (c *Client) Subscribe(topic string, handler Handler) error {
	token := c.paho.Subscribe(topic, QoS, func(_ pahomqtt.Client, m pahomqtt.Message) {
		handler(Message{
			ID:       m.MessageID(),
			Topic:    m.Topic(),
			Retained: m.Retained(),
			Payload:  m.Payload(),
		})
	})
	if !token.WaitTimeout(tokenTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, tokenTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	c.log.Debug("subscribed", "topic", topic)
	return nil
}

// Unsubscribe removes the subscription for the topic.
func (c *Client) Unsubscribe(topic string) error {
	token := c.paho.Unsubscribe(topic)
	if !token.WaitTimeout(tokenTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrUnsubscribeFailed, tokenTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}
	return nil
}

// Close drops the connection, waiting briefly for in-flight work.
// Safe to call on every exit path.
func (c *Client) Close() {
	c.paho.Disconnect(disconnectQuiesce)
	c.log.Debug("disconnected from broker")
}
