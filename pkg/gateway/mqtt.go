package gateway

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MQTTOptions configures the broker connection.
type MQTTOptions struct {
	Broker   string
	Topic    string
	Username string
	Password string
}

// Publisher republishes ingested records as JSON on an MQTT topic.
type Publisher struct {
	client mqtt.Client
	topic  string
	log    *zap.Logger
}

var _ Sink = (*Publisher)(nil)

// NewPublisher connects to the broker. The client ID is unique per
// process so a restarted gateway does not kick its predecessor's
// session.
func NewPublisher(o MQTTOptions, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(o.Broker)
	opts.SetClientID("healthmon-gateway-" + uuid.NewString()[:8])

	if o.Username != "" {
		opts.SetUsername(o.Username)
	}
	if o.Password != "" {
		opts.SetPassword(o.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("gateway: connect to MQTT broker %s: %w", o.Broker, token.Error())
	}

	log.Info("connected to MQTT broker", zap.String("broker", o.Broker), zap.String("topic", o.Topic))
	return &Publisher{client: client, topic: o.Topic, log: log}, nil
}

// Ingest publishes one record. Emergencies go out at QoS 1, everything
// else at QoS 0.
func (p *Publisher) Ingest(r Record) error {
	payload, err := r.JSON()
	if err != nil {
		return fmt.Errorf("gateway: marshal record %s: %w", r.ID, err)
	}

	var qos byte
	if r.Status == "EMERGENCY" {
		qos = 1
	}

	token := p.client.Publish(p.topic, qos, false, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("gateway: publish record %s: %w", r.ID, token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
