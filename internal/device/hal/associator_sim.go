package hal

import (
	"context"
	"fmt"
	"net"
	"time"

	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/pkg/log"
)

// SimAssociator stands in for the radio on development machines.
// It fails a scripted number of attempts before associating.
type SimAssociator struct {
	iface    string
	failures int
	latency  time.Duration
	clock    clock.Clock

	attempts int
}

var _ core.Associator = (*SimAssociator)(nil)

// NewSimAssociator fails the first failures attempts; a negative count never associates.
func NewSimAssociator(iface string, failures int, latency time.Duration, clk clock.Clock) *SimAssociator {
	return &SimAssociator{
		iface:    iface,
		failures: failures,
		latency:  latency,
		clock:    clk,
	}
}

func (a *SimAssociator) Associate(_ context.Context, ssid, _ string) (core.Link, error) {
	a.attempts++
	a.clock.Sleep(a.latency)

	if ssid == "" {
		return nil, ErrEmptySSID
	}
	if a.failures < 0 || a.attempts <= a.failures {
		return nil, fmt.Errorf("[HAL-Sim] attempt %d on %s: %w", a.attempts, a.iface, ErrNoAccessPoint)
	}

	addr := net.IPv4(192, 168, 4, byte(2+a.attempts%250)).String()
	log.Debug("[HAL-Sim] Associated", "ssid", ssid, "interface", a.iface, "addr", addr)
	return &wifiLink{iface: a.iface, ssid: ssid, addr: addr}, nil
}

// Attempts returns how many times Associate was called.
func (a *SimAssociator) Attempts() int {
	return a.attempts
}
