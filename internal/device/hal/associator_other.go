//go:build !linux

package hal

import (
	"fmt"

	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
)

// NewAssociator returns the associator selected by driver. Only the sim driver exists off linux.
func NewAssociator(driver string, cfg AssociatorConfig, clk clock.Clock) (core.Associator, error) {
	switch driver {
	case DriverSim:
		return NewSimAssociator(cfg.Interface, cfg.SimFailures, cfg.SimLatency, clk), nil
	case DriverNetlink:
		return nil, fmt.Errorf("associator driver %q requires linux", driver)
	default:
		return nil, fmt.Errorf("unknown associator driver %q", driver)
	}
}
