package device

import (
	"context"
	"errors"

	"github.com/looplab/fsm"

	"cloupeer.io/chirp/internal/device/core"
	fsmutil "cloupeer.io/chirp/internal/pkg/util/fsm"
)

const (
	// EventBooted moves from Booting to Connecting once the chime has played.
	EventBooted = "event_booted"
	// EventAssociated moves from Connecting to Connected. It takes the core.Link as its only argument.
	EventAssociated = "event_associated"
	// EventSettled moves from Connected to Idle after the greeting dwell.
	EventSettled = "event_settled"
)

var errNoLink = errors.New("associated without a link")

// EnterFunc observes a completed phase transition.
type EnterFunc func(ctx context.Context, from, to core.Phase)

// stateMachine records where the device is in its bring-up. It never drives control flow;
// Run fires the events after the work for a phase is done.
type stateMachine struct {
	*fsm.FSM

	onEnter EnterFunc
}

func newStateMachine(onEnter EnterFunc) *stateMachine {
	m := &stateMachine{onEnter: onEnter}

	events := fsm.Events{
		{Name: EventBooted, Src: []string{string(core.PhaseBooting)}, Dst: string(core.PhaseConnecting)},
		{Name: EventAssociated, Src: []string{string(core.PhaseConnecting)}, Dst: string(core.PhaseConnected)},
		{Name: EventSettled, Src: []string{string(core.PhaseConnected)}, Dst: string(core.PhaseIdle)},
	}

	callbacks := fsm.Callbacks{
		"before_" + EventAssociated: fsmutil.Guard(m.GuardLinked),
		"enter_state":               fsmutil.WrapEvent(m.ActionEnterState),
	}

	m.FSM = fsm.NewFSM(string(core.PhaseBooting), events, callbacks)
	return m
}

// GuardLinked refuses to enter Connected unless the event carries a live link.
func (m *stateMachine) GuardLinked(ctx context.Context, e *fsm.Event) error {
	if len(e.Args) == 0 {
		return errNoLink
	}
	if link, ok := e.Args[0].(core.Link); !ok || link == nil {
		return errNoLink
	}
	return nil
}

func (m *stateMachine) ActionEnterState(ctx context.Context, e *fsm.Event) error {
	if m.onEnter != nil {
		m.onEnter(ctx, core.Phase(e.Src), core.Phase(e.Dst))
	}
	return nil
}

// Phase is safe to call from any goroutine.
func (m *stateMachine) Phase() core.Phase {
	return core.Phase(m.Current())
}
