package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Associator drivers.
const (
	NetworkDriverSim     = "sim"
	NetworkDriverNetlink = "netlink"
)

var _ IOptions = (*NetworkOptions)(nil)

// NetworkOptions describes the single wireless network the device joins.
// Empty SSID and PSK are accepted: association then fails and is retried forever.
type NetworkOptions struct {
	SSID string `json:"ssid" mapstructure:"ssid"`
	PSK  string `json:"psk" mapstructure:"psk"`

	// Interface is the wireless interface handed to the associator.
	Interface string `json:"interface" mapstructure:"interface"`

	// Driver selects the associator implementation: "sim" or "netlink".
	Driver string `json:"driver" mapstructure:"driver"`

	// AssociationTimeout bounds a single attempt inside the associator.
	AssociationTimeout time.Duration `json:"association-timeout" mapstructure:"association-timeout"`

	// SupplicantConfig is where the netlink driver writes the network block.
	SupplicantConfig string `json:"supplicant-config" mapstructure:"supplicant-config"`

	// SimFailures makes the sim driver fail that many attempts before succeeding. Negative fails forever.
	SimFailures int           `json:"sim-failures" mapstructure:"sim-failures"`
	SimLatency  time.Duration `json:"sim-latency" mapstructure:"sim-latency"`
}

// NewNetworkOptions creates NetworkOptions with default values.
func NewNetworkOptions() *NetworkOptions {
	return &NetworkOptions{
		Interface:          "wlan0",
		Driver:             NetworkDriverSim,
		AssociationTimeout: 15 * time.Second,
		SupplicantConfig:   "/etc/wpa_supplicant/wpa_supplicant-chirp.conf",
	}
}

func (o *NetworkOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Driver {
	case NetworkDriverSim, NetworkDriverNetlink:
	default:
		errors = append(errors, fmt.Errorf("unknown --network.driver %q", o.Driver))
	}

	if o.Driver == NetworkDriverNetlink && o.Interface == "" {
		errors = append(errors, fmt.Errorf("--network.interface is required by the netlink driver"))
	}

	if o.AssociationTimeout <= 0 {
		errors = append(errors, fmt.Errorf("--network.association-timeout must be positive"))
	}

	if o.SimLatency < 0 {
		errors = append(errors, fmt.Errorf("--network.sim-latency must not be negative"))
	}

	return errors
}

func (o *NetworkOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.SSID, "network.ssid", o.SSID, "Name of the wireless network to join.")
	fs.StringVar(&o.PSK, "network.psk", o.PSK, "Pre-shared key of the wireless network.")
	fs.StringVar(&o.Interface, "network.interface", o.Interface, "Wireless network interface.")
	fs.StringVar(&o.Driver, "network.driver", o.Driver, "Associator driver ('sim' or 'netlink').")
	fs.DurationVar(&o.AssociationTimeout, "network.association-timeout", o.AssociationTimeout, "Upper bound of a single association attempt.")
	fs.StringVar(&o.SupplicantConfig, "network.supplicant-config", o.SupplicantConfig, "wpa_supplicant config file managed by the netlink driver.")
	fs.IntVar(&o.SimFailures, "network.sim-failures", o.SimFailures, "Attempts the sim driver fails before associating (negative: never associate).")
	fs.DurationVar(&o.SimLatency, "network.sim-latency", o.SimLatency, "How long each sim association attempt blocks.")
}
