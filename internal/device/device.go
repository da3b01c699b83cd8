// Package device sequences the bring-up of a chirp device: chime, association, greeting, idle.
package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/chime"
	"cloupeer.io/chirp/internal/device/connect"
	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/internal/pkg/metrics"
	"cloupeer.io/chirp/pkg/log"
)

// StaticConfig is fixed for the lifetime of the process. Empty values are allowed;
// an empty network name simply never associates.
type StaticConfig struct {
	NetworkName    string
	NetworkSecret  string
	RemoteEndpoint string
	ClientKey      string
	ClientCert     string
}

// Messages are the texts rendered on the display.
type Messages struct {
	Connecting string
	Greeting   string
	// Retrying is rendered after a failed attempt when failure notices are enabled.
	Retrying string
}

func DefaultMessages() Messages {
	return Messages{
		Connecting: "connecting...",
		Greeting:   "hiiiii :3",
		Retrying:   "retrying...",
	}
}

// DefaultDwell is how long the greeting stays up before the idle animation.
const DefaultDwell = 3 * time.Second

type Device struct {
	static     StaticConfig
	feedback   core.Feedback
	associator core.Associator
	reporter   core.Reporter

	policy       connect.Policy
	clock        clock.Clock
	logger       log.Logger
	messages     Messages
	dwell        time.Duration
	showFailures bool

	machine     *stateMachine
	telemetryUp atomic.Bool

	mu   sync.RWMutex
	link core.Link
}

type Option func(*Device)

func WithPolicy(p connect.Policy) Option {
	return func(d *Device) { d.policy = p }
}

func WithClock(c clock.Clock) Option {
	return func(d *Device) { d.clock = c }
}

func WithLogger(l log.Logger) Option {
	return func(d *Device) { d.logger = l }
}

// WithReporter enables telemetry. Without it the device never talks to a remote endpoint.
func WithReporter(r core.Reporter) Option {
	return func(d *Device) { d.reporter = r }
}

func WithMessages(m Messages) Option {
	return func(d *Device) { d.messages = m }
}

func WithDwell(dwell time.Duration) Option {
	return func(d *Device) { d.dwell = dwell }
}

// WithFailureNotice renders Messages.Retrying after every failed association attempt.
func WithFailureNotice(enabled bool) Option {
	return func(d *Device) { d.showFailures = enabled }
}

func NewDevice(static StaticConfig, feedback core.Feedback, associator core.Associator, opts ...Option) *Device {
	d := &Device{
		static:     static,
		feedback:   feedback,
		associator: associator,
		policy:     connect.DefaultPolicy(),
		clock:      clock.RealClock{},
		logger:     log.Std(),
		messages:   DefaultMessages(),
		dwell:      DefaultDwell,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.machine = newStateMachine(d.enterPhase)
	metrics.SetPhase(core.PhaseBooting.String(), phaseNames())
	return d
}

// Run blocks for the lifetime of the device. It returns nil once ctx is cancelled and an error
// only when a bounded retry policy runs out of attempts. ctx is consulted between steps,
// never in the middle of a render, a tone or an association attempt.
func (d *Device) Run(ctx context.Context) error {
	// Phase bookkeeping must not fail because shutdown has begun.
	fsmCtx := context.WithoutCancel(ctx)

	d.logger.Info("Hello, world!")
	chime.Play(d.feedback, chime.Startup)

	if err := d.machine.Event(fsmCtx, EventBooted); err != nil {
		return fmt.Errorf("enter %s phase: %w", core.PhaseConnecting, err)
	}
	d.feedback.RenderText(d.messages.Connecting)

	loop := connect.NewLoop(d.associator, d.static.NetworkName, d.static.NetworkSecret,
		connect.WithPolicy(d.policy),
		connect.WithClock(d.clock),
		connect.WithLogger(d.logger),
		connect.WithFailureHook(d.onAssociationFailure),
	)
	link, err := loop.Run(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			d.logger.Info("Shutting down before the network came up")
			return nil
		}
		return err
	}

	if err := d.machine.Event(fsmCtx, EventAssociated, link); err != nil {
		return fmt.Errorf("enter %s phase: %w", core.PhaseConnected, err)
	}
	d.setLink(link)
	d.feedback.RenderText(d.messages.Greeting)

	d.startTelemetry(ctx)
	defer d.stopTelemetry()

	d.clock.Sleep(d.dwell)
	if err := d.machine.Event(fsmCtx, EventSettled); err != nil {
		return fmt.Errorf("enter %s phase: %w", core.PhaseIdle, err)
	}

	for ctx.Err() == nil {
		d.feedback.PlayIdleAnimation()
	}

	d.logger.Info("Shutting down")
	return nil
}

// Phase returns the current bring-up phase. It is safe to call from any goroutine.
func (d *Device) Phase() core.Phase {
	return d.machine.Phase()
}

// Link returns the network association, or nil before the device is connected.
func (d *Device) Link() core.Link {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.link
}

func (d *Device) setLink(link core.Link) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.link = link
}

func (d *Device) onAssociationFailure(attempt int, err error) {
	if d.showFailures {
		d.feedback.RenderText(d.messages.Retrying)
	}
}

// enterPhase runs after every fsm transition.
func (d *Device) enterPhase(ctx context.Context, from, to core.Phase) {
	metrics.SetPhase(to.String(), phaseNames())
	d.logger.Info("Entered bring-up phase", "phase", to, "from", from)
	d.report(ctx, to)
}

// startTelemetry connects the reporter. Any failure leaves the device running without telemetry.
func (d *Device) startTelemetry(ctx context.Context) {
	if d.reporter == nil {
		return
	}

	if err := d.reporter.Start(ctx); err != nil {
		d.logger.Error(err, "Telemetry unavailable, continuing without it", "endpoint", d.static.RemoteEndpoint)
		return
	}
	d.telemetryUp.Store(true)
	d.report(ctx, d.Phase())
}

func (d *Device) stopTelemetry() {
	if d.telemetryUp.CompareAndSwap(true, false) {
		d.reporter.Stop()
	}
}

func (d *Device) report(ctx context.Context, phase core.Phase) {
	if !d.telemetryUp.Load() {
		return
	}
	if err := d.reporter.Report(ctx, phase); err != nil {
		d.logger.Error(err, "Failed to report bring-up phase", "phase", phase)
	}
}

func phaseNames() []string {
	names := make([]string, 0, len(core.Phases))
	for _, p := range core.Phases {
		names = append(names, p.String())
	}
	return names
}
