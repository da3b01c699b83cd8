package hub

import (
	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/internal/pkg/mqtt/paths"
)

var events = map[core.EventType]string{
	core.EventOnline: paths.Online,
	core.EventPhase:  paths.Phase,
}

// Topic returns the full topic event is published on, or "" for an unmapped event.
func (h *Hub) Topic(event core.EventType) string {
	segment, ok := events[event]
	if !ok {
		return ""
	}
	return h.topics.Build(segment, h.deviceID)
}
