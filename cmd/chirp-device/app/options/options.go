package options

import (
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"cloupeer.io/chirp/internal/device"
	"cloupeer.io/chirp/pkg/app"
	"cloupeer.io/chirp/pkg/log"
	"cloupeer.io/chirp/pkg/options"
)

const redacted = "<redacted>"

type DeviceOptions struct {
	DeviceID string `json:"device-id" mapstructure:"device-id"`

	NetworkOptions  *options.NetworkOptions  `json:"network" mapstructure:"network"`
	RetryOptions    *options.RetryOptions    `json:"retry" mapstructure:"retry"`
	FeedbackOptions *options.FeedbackOptions `json:"feedback" mapstructure:"feedback"`
	MqttOptions     *options.MqttOptions     `json:"mqtt" mapstructure:"mqtt"`
	HttpOptions     *options.HttpOptions     `json:"http" mapstructure:"http"`
	Log             *log.Options             `json:"log" mapstructure:"log"`
}

var _ app.NamedFlagSetOptions = (*DeviceOptions)(nil)

func NewDeviceOptions() *DeviceOptions {
	return &DeviceOptions{
		NetworkOptions:  options.NewNetworkOptions(),
		RetryOptions:    options.NewRetryOptions(),
		FeedbackOptions: options.NewFeedbackOptions(),
		MqttOptions:     options.NewMqttOptions(),
		HttpOptions:     options.NewHttpOptions(),
		Log:             log.NewOptions(),
	}
}

func (o *DeviceOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	fss.FlagSet("device").StringVar(&o.DeviceID, "device-id", o.DeviceID,
		"Identity used in telemetry topics. Discovered from the system when empty.")
	o.NetworkOptions.AddFlags(fss.FlagSet("network"))
	o.RetryOptions.AddFlags(fss.FlagSet("retry"))
	o.FeedbackOptions.AddFlags(fss.FlagSet("feedback"))
	o.MqttOptions.AddFlags(fss.FlagSet("mqtt"))
	o.HttpOptions.AddFlags(fss.FlagSet("http"))
	o.Log.AddFlags(fss.FlagSet("log"))
	return fss
}

func (o *DeviceOptions) Complete() error {
	o.DeviceID = strings.TrimSpace(o.DeviceID)
	return nil
}

func (o *DeviceOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.NetworkOptions.Validate()...)
	errs = append(errs, o.RetryOptions.Validate()...)
	errs = append(errs, o.FeedbackOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return utilerrors.NewAggregate(errs)
}

// StaticConfig is the fixed bring-up configuration handed to the device.
func (o *DeviceOptions) StaticConfig() device.StaticConfig {
	return device.StaticConfig{
		NetworkName:    o.NetworkOptions.SSID,
		NetworkSecret:  o.NetworkOptions.PSK,
		RemoteEndpoint: o.MqttOptions.Broker,
		ClientKey:      o.MqttOptions.ClientKey,
		ClientCert:     o.MqttOptions.ClientCert,
	}
}

func (o *DeviceOptions) Config() (*device.Config, error) {
	return &device.Config{
		Static:          o.StaticConfig(),
		DeviceID:        o.DeviceID,
		NetworkOptions:  o.NetworkOptions,
		RetryOptions:    o.RetryOptions,
		FeedbackOptions: o.FeedbackOptions,
		MqttOptions:     o.MqttOptions,
	}, nil
}

// Table renders the resolved configuration with secrets redacted.
func (o *DeviceOptions) Table() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("KEY", "VALUE")

	row := func(key string, value any) {
		table.AddRow(key, fmt.Sprint(value))
	}
	secret := func(key, value string) {
		if value != "" {
			value = redacted
		}
		table.AddRow(key, value)
	}

	row("device-id", o.DeviceID)

	row("network.ssid", o.NetworkOptions.SSID)
	secret("network.psk", o.NetworkOptions.PSK)
	row("network.interface", o.NetworkOptions.Interface)
	row("network.driver", o.NetworkOptions.Driver)
	row("network.association-timeout", o.NetworkOptions.AssociationTimeout)

	row("retry.delay", o.RetryOptions.Delay)
	row("retry.max-attempts", o.RetryOptions.MaxAttempts)
	row("retry.multiplier", o.RetryOptions.Multiplier)
	row("retry.max-delay", o.RetryOptions.MaxDelay)

	row("feedback.driver", o.FeedbackOptions.Driver)
	row("feedback.connecting-message", o.FeedbackOptions.ConnectingMessage)
	row("feedback.greeting", o.FeedbackOptions.Greeting)
	row("feedback.dwell", o.FeedbackOptions.Dwell)
	row("feedback.show-failures", o.FeedbackOptions.ShowFailures)

	row("mqtt.broker", o.MqttOptions.Broker)
	row("mqtt.username", o.MqttOptions.Username)
	secret("mqtt.password", o.MqttOptions.Password)
	secret("mqtt.client-cert", o.MqttOptions.ClientCert)
	secret("mqtt.client-key", o.MqttOptions.ClientKey)
	row("mqtt.topic-root", o.MqttOptions.TopicRoot)

	row("http.addr", o.HttpOptions.Addr)
	row("log.level", o.Log.Level)
	row("log.format", o.Log.Format)

	return table
}
