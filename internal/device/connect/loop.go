// Package connect keeps asking the associator to join the configured network until it succeeds.
package connect

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/internal/pkg/metrics"
	"cloupeer.io/chirp/pkg/log"
)

// ErrAttemptsExhausted is returned when a bounded policy runs out of attempts.
var ErrAttemptsExhausted = errors.New("association attempts exhausted")

var errNilLink = errors.New("associator returned neither a link nor an error")

// FailureFunc observes a failed attempt before the loop sleeps.
type FailureFunc func(attempt int, err error)

// Loop drives the associator for a single fixed network.
type Loop struct {
	associator core.Associator
	ssid       string
	secret     string

	policy    Policy
	clock     clock.Clock
	logger    log.Logger
	onFailure FailureFunc
}

// Option configures a Loop.
type Option func(*Loop)

func WithPolicy(p Policy) Option {
	return func(l *Loop) { l.policy = p }
}

func WithClock(c clock.Clock) Option {
	return func(l *Loop) { l.clock = c }
}

func WithLogger(logger log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithFailureHook registers fn to run after every failed attempt.
func WithFailureHook(fn FailureFunc) Option {
	return func(l *Loop) { l.onFailure = fn }
}

// NewLoop returns a loop joining ssid with secret. Empty credentials are passed through untouched.
func NewLoop(a core.Associator, ssid, secret string, opts ...Option) *Loop {
	l := &Loop{
		associator: a,
		ssid:       ssid,
		secret:     secret,
		policy:     DefaultPolicy(),
		clock:      clock.RealClock{},
		logger:     log.Std(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run blocks until the associator returns a link.
// It only gives up when ctx is cancelled between attempts or a bounded policy is exhausted.
func (l *Loop) Run(ctx context.Context) (core.Link, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		link, err := l.attempt(ctx)
		if err == nil {
			metrics.AssociationAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
			l.logger.Info("Connected to Wi-Fi network", "ssid", l.ssid, "interface", link.Interface(), "attempt", attempt)
			return link, nil
		}

		metrics.AssociationAttempts.WithLabelValues(metrics.ResultFailure).Inc()
		if l.onFailure != nil {
			l.onFailure(attempt, err)
		}

		if l.policy.Bounded() && attempt >= l.policy.MaxAttempts {
			l.logger.Error(err, "Could not connect to Wi-Fi network, giving up", "attempt", attempt, "ssid", l.ssid)
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
		}

		delay := l.policy.NextDelay(attempt)
		l.logger.Error(err, "Could not connect to Wi-Fi network, trying again...", "attempt", attempt, "ssid", l.ssid, "delay", delay)
		l.clock.Sleep(delay)
	}
}

func (l *Loop) attempt(ctx context.Context) (core.Link, error) {
	start := l.clock.Now()
	link, err := l.associator.Associate(ctx, l.ssid, l.secret)
	metrics.AssociationDuration.Observe(l.clock.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, errNilLink
	}
	return link, nil
}
