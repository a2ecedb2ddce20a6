package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"confman/contexts/peer-review/review-workflow-service/ports"
	"confman/internal/shared/events"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttQoS            = 1
	mqttPublishTimeout = 10 * time.Second
	mqttConnectTimeout = 10 * time.Second
)

var ErrNotConnected = errors.New("not connected to mqtt broker")

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// MQTTPublisher relays outbox events to an MQTT broker as JSON envelopes.
type MQTTPublisher struct {
	config MQTTConfig
	logger *slog.Logger

	mu     sync.Mutex
	client mqtt.Client
}

func NewMQTTPublisher(config MQTTConfig, logger *slog.Logger) (*MQTTPublisher, error) {
	if strings.TrimSpace(config.Broker) == "" {
		return nil, errors.New("mqtt broker is required")
	}
	if strings.TrimSpace(config.ClientID) == "" {
		config.ClientID = "confman-review-workflow"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTPublisher{config: config, logger: logger}, nil
}

func (p *MQTTPublisher) clientOptions() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(p.config.Broker)
	opts.SetClientID(p.config.ClientID)
	opts.SetUsername(p.config.Username)
	opts.SetPassword(p.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(mqttConnectTimeout)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		p.logger.Info("mqtt connected",
			"event", "mqtt_connected",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"broker", p.config.Broker,
		)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.logger.Warn("mqtt connection lost",
			"event", "mqtt_connection_lost",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"broker", p.config.Broker,
			"error", err.Error(),
		)
	})
	return opts
}

func (p *MQTTPublisher) Connect(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil && p.client.IsConnected() {
		return nil
	}
	client := mqtt.NewClient(p.clientOptions())
	token := client.Connect()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", p.config.Broker, err)
	}
	p.client = client
	return nil
}

func (p *MQTTPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client != nil && p.client.IsConnected()
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	payload, err := events.Envelope{
		EventID:        event.EventID,
		EventType:      event.EventType,
		SourceService:  event.SourceService,
		OccurredAtUTC:  event.OccurredAt,
		PartitionKey:   event.PartitionKey,
		PayloadVersion: event.SchemaVersion,
		Payload:        event.Data,
	}.Encode()
	if err != nil {
		return err
	}

	p.mu.Lock()
	client := p.client
	p.mu.Unlock()
	if client == nil || !client.IsConnected() {
		return ErrNotConnected
	}

	token := client.Publish(MQTTTopic(topic), mqttQoS, false, payload)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-token.Done():
	case <-time.After(mqttPublishTimeout):
		return fmt.Errorf("mqtt publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return err
	}

	p.logger.Debug("event published",
		"event", "mqtt_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"bytes", len(payload),
	)
	return nil
}

func (p *MQTTPublisher) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
	p.client = nil
}

// MQTTTopic maps dotted event types onto MQTT topic levels:
// "confman/review.submitted" becomes "confman/review/submitted".
func MQTTTopic(topic string) string {
	return strings.ReplaceAll(strings.Trim(topic, "/ "), ".", "/")
}
