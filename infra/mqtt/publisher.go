package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/evbms/core/metrics"
	"github.com/kilianp07/evbms/infra/logger"
)

// Config defines the connection parameters for the prediction event publisher.
type Config struct {
	Enabled               bool   `json:"enabled"`
	Broker                string `json:"broker"`
	ClientID              string `json:"client_id"`
	Username              string `json:"username"`
	Password              string `json:"password"`
	Topic                 string `json:"topic"`
	QoS                   byte   `json:"qos"`
	ConnectTimeoutSeconds int    `json:"connect_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "evbms"
	}
	if c.Topic == "" {
		c.Topic = "evbms/predictions"
	}
	if c.ConnectTimeoutSeconds <= 0 {
		c.ConnectTimeoutSeconds = 5
	}
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when enabled")
	}
	if c.QoS > 2 {
		return fmt.Errorf("mqtt qos must be 0, 1 or 2")
	}
	return nil
}

// Publisher sends each prediction event as a JSON message using Eclipse Paho.
// It implements metrics.Sink so it composes with the other sinks.
type Publisher struct {
	cli   paho.Client
	topic string
	qos   byte
	log   logger.Logger
}

// NewPublisher connects to the broker. A connection failure is returned to the
// caller, who decides whether to degrade or abort.
func NewPublisher(cfg Config) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	cli := paho.NewClient(opts)
	timeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	tok := cli.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out after %s", cfg.Broker, timeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}
	return &Publisher{cli: cli, topic: cfg.Topic, qos: cfg.QoS, log: logger.New("mqtt-publisher")}, nil
}

type eventMessage struct {
	VehicleType string  `json:"vehicle_type"`
	EVModel     string  `json:"ev_model"`
	Predictor   string  `json:"predictor"`
	Fallback    bool    `json:"fallback"`
	ChartFile   string  `json:"chart_file"`
	DurationMS  float64 `json:"duration_ms"`
	Time        string  `json:"time"`
}

func encodeEvent(ev metrics.PredictionEvent) ([]byte, error) {
	return json.Marshal(eventMessage{
		VehicleType: ev.VehicleType,
		EVModel:     ev.EVModel,
		Predictor:   ev.Predictor,
		Fallback:    ev.Fallback,
		ChartFile:   ev.ChartFile,
		DurationMS:  float64(ev.Duration.Microseconds()) / 1000,
		Time:        ev.Time.Format(time.RFC3339Nano),
	})
}

// RecordPrediction implements metrics.Sink.
func (p *Publisher) RecordPrediction(ev metrics.PredictionEvent) error {
	payload, err := encodeEvent(ev)
	if err != nil {
		return fmt.Errorf("encode prediction event: %w", err)
	}
	tok := p.cli.Publish(p.topic, p.qos, false, payload)
	if !tok.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	return tok.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.cli.Disconnect(250)
}
