// Package events publishes control panel actions to an MQTT broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mtraver/rpi-thermal-cam/camera"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	disconnectMs   = 250
)

// Event describes one action taken on the camera.
type Event struct {
	Device   string          `json:"device"`
	Action   string          `json:"action"`
	Success  bool            `json:"success"`
	Settings camera.Settings `json:"settings"`
	Time     time.Time       `json:"time"`
}

// Publisher sends Events somewhere.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// DefaultTopic returns the topic events for device are published to when
// no topic is configured.
func DefaultTopic(device string) string {
	return fmt.Sprintf("thermalcam/%s/events", device)
}

type nop struct{}

func (nop) Publish(context.Context, Event) error { return nil }
func (nop) Close()                               {}

// Nop returns a Publisher that drops every event.
func Nop() Publisher {
	return nop{}
}

// MQTTPublisher publishes JSON-encoded events at QoS 1.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
}

// NewMQTT connects to broker (e.g. "tcp://localhost:1883").
func NewMQTT(broker, clientID, topic string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("events: timed out connecting to %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("events: failed to connect to %s: %w", broker, err)
	}

	return newMQTTPublisher(client, topic), nil
}

func newMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{
		client: client,
		topic:  topic,
	}
}

// Publish blocks until the broker acknowledges the event or ctx is done.
func (p *MQTTPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, qos, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(disconnectMs)
}
