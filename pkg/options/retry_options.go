package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*RetryOptions)(nil)

// RetryOptions configures the association retry policy.
// The defaults retry forever every 5 seconds.
type RetryOptions struct {
	Delay       time.Duration `json:"delay" mapstructure:"delay"`
	MaxAttempts int           `json:"max-attempts" mapstructure:"max-attempts"`
	Multiplier  float64       `json:"multiplier" mapstructure:"multiplier"`
	MaxDelay    time.Duration `json:"max-delay" mapstructure:"max-delay"`
}

func NewRetryOptions() *RetryOptions {
	return &RetryOptions{
		Delay:      5 * time.Second,
		Multiplier: 1,
	}
}

func (o *RetryOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	// A zero delay turns a missing access point into a hot loop flooding the log.
	if o.Delay <= 0 {
		errors = append(errors, fmt.Errorf("--retry.delay must be positive"))
	}
	if o.MaxAttempts < 0 {
		errors = append(errors, fmt.Errorf("--retry.max-attempts must not be negative"))
	}
	if o.Multiplier < 1 {
		errors = append(errors, fmt.Errorf("--retry.multiplier must be >= 1"))
	}
	if o.MaxDelay < 0 {
		errors = append(errors, fmt.Errorf("--retry.max-delay must not be negative"))
	}

	return errors
}

func (o *RetryOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.DurationVar(&o.Delay, "retry.delay", o.Delay, "Delay between association attempts.")
	fs.IntVar(&o.MaxAttempts, "retry.max-attempts", o.MaxAttempts, "Give up after this many attempts (0 retries forever).")
	fs.Float64Var(&o.Multiplier, "retry.multiplier", o.Multiplier, "Delay growth factor per failed attempt (1 keeps it fixed).")
	fs.DurationVar(&o.MaxDelay, "retry.max-delay", o.MaxDelay, "Cap for the grown delay (0 means no cap).")
}
