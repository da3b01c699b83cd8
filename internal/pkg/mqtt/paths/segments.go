package paths

// Topic segments for chirp device telemetry.
// Every topic follows {root}/{segment}/{deviceID}.

// Upstream: Device -> Cloud
const (
	// Online carries the retained online/offline status of a device. The offline
	// variant is also registered as the MQTT last will.
	// Payload: { "deviceId": "...", "online": true/false, "reason": "..." }
	// Pattern: {root}/online/{deviceID}
	Online = "online"

	// Phase carries bring-up phase transitions once the device has a network.
	// Payload: { "deviceId": "...", "phase": "connected", "online": true, "at": "..." }
	// Pattern: {root}/phase/{deviceID}
	Phase = "phase"
)
