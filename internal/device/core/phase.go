package core

// Phase is the position of the device in its bring-up sequence.
type Phase string

const (
	PhaseBooting    Phase = "booting"
	PhaseConnecting Phase = "connecting"
	PhaseConnected  Phase = "connected"
	PhaseIdle       Phase = "idle"
)

// Phases lists every phase in bring-up order.
var Phases = []Phase{PhaseBooting, PhaseConnecting, PhaseConnected, PhaseIdle}

func (p Phase) String() string {
	return string(p)
}

// Online reports whether the device holds a network association in this phase.
func (p Phase) Online() bool {
	return p == PhaseConnected || p == PhaseIdle
}
