package device

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/connect"
	"cloupeer.io/chirp/internal/device/hal"
	"cloupeer.io/chirp/internal/device/hub"
	"cloupeer.io/chirp/internal/pkg/mqtt/paths"
	"cloupeer.io/chirp/pkg/log"
	"cloupeer.io/chirp/pkg/mqtt"
	mqtttopic "cloupeer.io/chirp/pkg/mqtt/topic"
	"cloupeer.io/chirp/pkg/options"
)

// Config is everything needed to assemble a Device. It is resolved once at process entry.
type Config struct {
	Static   StaticConfig
	DeviceID string

	NetworkOptions  *options.NetworkOptions
	RetryOptions    *options.RetryOptions
	FeedbackOptions *options.FeedbackOptions
	MqttOptions     *options.MqttOptions

	// Clock defaults to the real clock.
	Clock clock.Clock
	// Out receives console feedback. It defaults to stdout.
	Out io.Writer
}

// NewDevice acquires the peripherals and wires the device. A peripheral that cannot be
// acquired is fatal; telemetry setup errors are too, since they mean the config is broken.
func (cfg *Config) NewDevice() (*Device, error) {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	periph, err := hal.Acquire(
		hal.FeedbackConfig{
			Driver:        cfg.FeedbackOptions.Driver,
			FrameInterval: cfg.FeedbackOptions.FrameInterval,
			Out:           cfg.Out,
		},
		cfg.NetworkOptions.Driver,
		hal.AssociatorConfig{
			Interface:        cfg.NetworkOptions.Interface,
			SupplicantConfig: cfg.NetworkOptions.SupplicantConfig,
			Timeout:          cfg.NetworkOptions.AssociationTimeout,
			SimFailures:      cfg.NetworkOptions.SimFailures,
			SimLatency:       cfg.NetworkOptions.SimLatency,
		},
		clk,
	)
	if err != nil {
		return nil, fmt.Errorf("FATAL: %w", err)
	}

	messages := DefaultMessages()
	messages.Connecting = cfg.FeedbackOptions.ConnectingMessage
	messages.Greeting = cfg.FeedbackOptions.Greeting

	opts := []Option{
		WithClock(clk),
		WithLogger(log.WithName("device")),
		WithPolicy(cfg.policy()),
		WithMessages(messages),
		WithDwell(cfg.FeedbackOptions.Dwell),
		WithFailureNotice(cfg.FeedbackOptions.ShowFailures),
	}

	if cfg.Static.RemoteEndpoint != "" {
		reporter, err := cfg.newHub(clk)
		if err != nil {
			return nil, fmt.Errorf("failed to init telemetry: %w", err)
		}
		opts = append(opts, WithReporter(reporter))
	}

	return NewDevice(cfg.Static, periph.Feedback, periph.Associator, opts...), nil
}

func (cfg *Config) policy() connect.Policy {
	if cfg.RetryOptions == nil {
		return connect.DefaultPolicy()
	}
	return connect.Policy{
		Delay:       cfg.RetryOptions.Delay,
		MaxAttempts: cfg.RetryOptions.MaxAttempts,
		Multiplier:  cfg.RetryOptions.Multiplier,
		MaxDelay:    cfg.RetryOptions.MaxDelay,
	}
}

func (cfg *Config) newHub(clk clock.Clock) (*hub.Hub, error) {
	id := cfg.DeviceID
	if id == "" {
		id = DiscoverDeviceID()
	}
	if id == "" {
		return nil, fmt.Errorf("unable to determine a device ID for telemetry")
	}

	mqttOpts := cfg.MqttOptions
	if mqttOpts == nil {
		mqttOpts = options.NewMqttOptions()
	}
	topicBuilder := mqtttopic.NewBuilder(mqttOpts.TopicRoot)

	mqttConfig := mqttOpts.ToClientConfig()
	mqttConfig.BrokerURL = cfg.Static.RemoteEndpoint
	mqttConfig.ClientCert = cfg.Static.ClientCert
	mqttConfig.ClientKey = cfg.Static.ClientKey
	if mqttConfig.ClientID == "" {
		mqttConfig.ClientID = fmt.Sprintf("chirp-%s", id)
	}

	// No timestamp in the will; the broker publishes it long after it was built.
	will, err := hub.OnlineMessage(id, false, "UnexpectedDisconnect")
	if err != nil {
		return nil, err
	}
	willPayload, err := protojson.Marshal(will)
	if err != nil {
		return nil, err
	}

	mqttConfig.WillTopic = topicBuilder.Build(paths.Online, id)
	mqttConfig.WillPayload = willPayload
	mqttConfig.WillQoS = 1
	mqttConfig.WillRetain = true

	client, err := mqtt.NewClient(mqttConfig)
	if err != nil {
		return nil, err
	}

	return hub.New(id, client, topicBuilder, mqttOpts.ConnectTimeout, clk), nil
}
