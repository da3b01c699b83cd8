package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Feedback drivers.
const (
	FeedbackDriverLog     = "log"
	FeedbackDriverConsole = "console"
)

var _ IOptions = (*FeedbackOptions)(nil)

// FeedbackOptions configures the display and piezo feedback.
type FeedbackOptions struct {
	Driver            string        `json:"driver" mapstructure:"driver"`
	ConnectingMessage string        `json:"connecting-message" mapstructure:"connecting-message"`
	Greeting          string        `json:"greeting" mapstructure:"greeting"`
	Dwell             time.Duration `json:"dwell" mapstructure:"dwell"`
	FrameInterval     time.Duration `json:"frame-interval" mapstructure:"frame-interval"`

	// ShowFailures renders a short notice on every failed association attempt.
	ShowFailures bool `json:"show-failures" mapstructure:"show-failures"`
}

func NewFeedbackOptions() *FeedbackOptions {
	return &FeedbackOptions{
		Driver:            FeedbackDriverLog,
		ConnectingMessage: "connecting...",
		Greeting:          "hiiiii :3",
		Dwell:             3 * time.Second,
		FrameInterval:     120 * time.Millisecond,
	}
}

func (o *FeedbackOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	switch o.Driver {
	case FeedbackDriverLog, FeedbackDriverConsole:
	default:
		errors = append(errors, fmt.Errorf("unknown --feedback.driver %q", o.Driver))
	}
	if o.Dwell < 0 {
		errors = append(errors, fmt.Errorf("--feedback.dwell must not be negative"))
	}
	if o.FrameInterval <= 0 {
		errors = append(errors, fmt.Errorf("--feedback.frame-interval must be positive"))
	}

	return errors
}

func (o *FeedbackOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Driver, "feedback.driver", o.Driver, "Feedback driver ('log' or 'console').")
	fs.StringVar(&o.ConnectingMessage, "feedback.connecting-message", o.ConnectingMessage, "Text shown while associating.")
	fs.StringVar(&o.Greeting, "feedback.greeting", o.Greeting, "Text shown once the network is up.")
	fs.DurationVar(&o.Dwell, "feedback.dwell", o.Dwell, "How long the greeting stays before the idle animation starts.")
	fs.DurationVar(&o.FrameInterval, "feedback.frame-interval", o.FrameInterval, "Pause between idle animation frames.")
	fs.BoolVar(&o.ShowFailures, "feedback.show-failures", o.ShowFailures, "Render a notice on every failed association attempt.")
}
