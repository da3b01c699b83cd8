//go:build linux

package hal

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/vishvananda/netlink"
	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/pkg/log"
)

const linkPollInterval = 250 * time.Millisecond

// NetlinkAssociator joins a network through wpa_supplicant and watches the interface with rtnetlink.
// wpa_supplicant must already run on the interface with the managed config file.
type NetlinkAssociator struct {
	iface       string
	confPath    string
	timeout     time.Duration
	clock       clock.Clock
	reconfigure func(ctx context.Context, iface string) error
}

var _ core.Associator = (*NetlinkAssociator)(nil)

func NewNetlinkAssociator(iface, confPath string, timeout time.Duration, clk clock.Clock) *NetlinkAssociator {
	return &NetlinkAssociator{
		iface:       iface,
		confPath:    confPath,
		timeout:     timeout,
		clock:       clk,
		reconfigure: wpaReconfigure,
	}
}

// Associate writes the network block, asks wpa_supplicant to reload it and waits for the
// interface to be operationally up with an IPv4 address.
func (a *NetlinkAssociator) Associate(ctx context.Context, ssid, secret string) (core.Link, error) {
	if ssid == "" {
		return nil, ErrEmptySSID
	}

	conf, err := supplicantConfig(ssid, secret)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(a.confPath), 0o755); err != nil {
		return nil, fmt.Errorf("create supplicant config dir: %w", err)
	}
	if err := os.WriteFile(a.confPath, []byte(conf), 0o600); err != nil {
		return nil, fmt.Errorf("write supplicant config: %w", err)
	}

	link, err := netlink.LinkByName(a.iface)
	if err != nil {
		return nil, fmt.Errorf("lookup interface %s: %w", a.iface, err)
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return nil, fmt.Errorf("set %s up: %w", a.iface, err)
	}
	if err := a.reconfigure(ctx, a.iface); err != nil {
		return nil, fmt.Errorf("reconfigure wpa_supplicant: %w", err)
	}

	log.Info("[HAL-Netlink] Waiting for association", "interface", a.iface, "ssid", ssid, "timeout", a.timeout)

	deadline := a.clock.Now().Add(a.timeout)
	for {
		addr, err := a.ready()
		if err != nil {
			return nil, err
		}
		if addr != "" {
			return &wifiLink{iface: a.iface, ssid: ssid, addr: addr}, nil
		}
		if a.clock.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s not up after %s", ErrAssociationTimeout, a.iface, a.timeout)
		}
		a.clock.Sleep(linkPollInterval)
	}
}

// ready returns the first IPv4 address once the link is operationally up, or "" while it is not.
func (a *NetlinkAssociator) ready() (string, error) {
	link, err := netlink.LinkByName(a.iface)
	if err != nil {
		return "", fmt.Errorf("lookup interface %s: %w", a.iface, err)
	}
	if link.Attrs().OperState != netlink.OperUp {
		return "", nil
	}

	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return "", fmt.Errorf("list addresses of %s: %w", a.iface, err)
	}
	for _, addr := range addrs {
		if addr.IP.IsGlobalUnicast() {
			return addr.IP.String(), nil
		}
	}
	return "", nil
}

func wpaReconfigure(ctx context.Context, iface string) error {
	out, err := exec.CommandContext(ctx, "wpa_cli", "-i", iface, "reconfigure").CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}

// NewAssociator returns the associator selected by driver.
func NewAssociator(driver string, cfg AssociatorConfig, clk clock.Clock) (core.Associator, error) {
	switch driver {
	case DriverNetlink:
		if _, err := netlink.LinkByName(cfg.Interface); err != nil {
			return nil, fmt.Errorf("wireless interface %s unavailable: %w", cfg.Interface, err)
		}
		return NewNetlinkAssociator(cfg.Interface, cfg.SupplicantConfig, cfg.Timeout, clk), nil
	case DriverSim:
		return NewSimAssociator(cfg.Interface, cfg.SimFailures, cfg.SimLatency, clk), nil
	default:
		return nil, fmt.Errorf("unknown associator driver %q", driver)
	}
}
