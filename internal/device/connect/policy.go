package connect

import (
	"math"
	"time"
)

// Policy decides how often and how long the loop waits between association attempts.
// The zero MaxAttempts retries forever; a Multiplier of 1 keeps the delay fixed.
type Policy struct {
	Delay       time.Duration
	MaxAttempts int
	Multiplier  float64
	MaxDelay    time.Duration
}

// DefaultPolicy retries forever, 5 seconds apart.
func DefaultPolicy() Policy {
	return Policy{
		Delay:      5 * time.Second,
		Multiplier: 1,
	}
}

// Bounded reports whether the policy gives up eventually.
func (p Policy) Bounded() bool {
	return p.MaxAttempts > 0
}

// NextDelay returns the pause after failed attempt n (1-based).
func (p Policy) NextDelay(attempt int) time.Duration {
	if p.Delay <= 0 {
		return 0
	}

	delay := float64(p.Delay)
	if attempt > 1 && p.Multiplier > 1 {
		delay *= math.Pow(p.Multiplier, float64(attempt-1))
	}
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if delay >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}
