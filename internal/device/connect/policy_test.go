package connect

import (
	"testing"
	"time"
)

func TestPolicyNextDelay(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{"default first", DefaultPolicy(), 1, 5 * time.Second},
		{"default stays fixed", DefaultPolicy(), 40, 5 * time.Second},
		{"geometric", Policy{Delay: time.Second, Multiplier: 2}, 4, 8 * time.Second},
		{"capped", Policy{Delay: time.Second, Multiplier: 2, MaxDelay: 5 * time.Second}, 10, 5 * time.Second},
		{"multiplier below one is fixed", Policy{Delay: time.Second, Multiplier: 0.5}, 3, time.Second},
		{"zero delay", Policy{}, 3, 0},
		{"huge growth saturates", Policy{Delay: time.Hour, Multiplier: 10}, 400, time.Duration(1<<63 - 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.NextDelay(tt.attempt); got != tt.want {
				t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestPolicyBounded(t *testing.T) {
	if DefaultPolicy().Bounded() {
		t.Error("default policy must retry forever")
	}
	if !(Policy{MaxAttempts: 1}).Bounded() {
		t.Error("MaxAttempts > 0 must bound the policy")
	}
}
