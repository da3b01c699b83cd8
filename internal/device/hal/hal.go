// Package hal adapts the display, piezo and radio of the device to the core interfaces.
package hal

import (
	"fmt"
	"io"
	"os"
	"time"

	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/pkg/log"
)

// Associator drivers.
const (
	DriverSim     = "sim"
	DriverNetlink = "netlink"
)

// Feedback drivers.
const (
	FeedbackLog     = "log"
	FeedbackConsole = "console"
)

// idleFrames is the happy face the display cycles through once online.
var idleFrames = []string{
	`(^o^)`,
	`(^-^)`,
	`\(^o^)/`,
	`(^-^)`,
}

// AssociatorConfig carries the interface resources handed to an associator.
type AssociatorConfig struct {
	Interface        string
	SupplicantConfig string
	Timeout          time.Duration
	SimFailures      int
	SimLatency       time.Duration
}

// FeedbackConfig selects and tunes the feedback driver.
type FeedbackConfig struct {
	Driver        string
	FrameInterval time.Duration
	Out           io.Writer
}

// Peripherals are the drivers the device owns for its whole lifetime.
type Peripherals struct {
	Feedback   core.Feedback
	Associator core.Associator
}

// Acquire constructs every peripheral driver. Any error is fatal for the boot.
func Acquire(fb FeedbackConfig, netDriver string, net AssociatorConfig, clk clock.Clock) (*Peripherals, error) {
	feedback, err := NewFeedback(fb, clk)
	if err != nil {
		return nil, fmt.Errorf("acquire feedback: %w", err)
	}

	associator, err := NewAssociator(netDriver, net, clk)
	if err != nil {
		return nil, fmt.Errorf("acquire associator: %w", err)
	}

	return &Peripherals{Feedback: feedback, Associator: associator}, nil
}

// NewFeedback returns the feedback driver selected by cfg.Driver.
func NewFeedback(cfg FeedbackConfig, clk clock.Clock) (core.Feedback, error) {
	switch cfg.Driver {
	case FeedbackLog, "":
		return NewLogFeedback(log.WithName("feedback"), cfg.FrameInterval, clk), nil
	case FeedbackConsole:
		out := cfg.Out
		if out == nil {
			out = os.Stdout
		}
		return NewConsoleFeedback(out, cfg.FrameInterval, clk), nil
	default:
		return nil, fmt.Errorf("unknown feedback driver %q", cfg.Driver)
	}
}
