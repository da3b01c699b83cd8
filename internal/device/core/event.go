package core

// EventType names an upstream telemetry message.
type EventType string

const (
	EventOnline EventType = "device.online"
	EventPhase  EventType = "device.phase"
)
