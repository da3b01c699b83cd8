package device

import (
	"os"
	"strings"

	"cloupeer.io/chirp/pkg/log"
)

// DeviceIDEnv overrides every other device ID source.
const DeviceIDEnv = "CHIRP_DEVICE_ID"

// deviceIDFiles are read in order. Provisioning writes the first one; the machine ID is the fallback.
var deviceIDFiles = []string{
	"/etc/chirp/device-id",
	"/etc/machine-id",
}

// DiscoverDeviceID finds a stable identity for telemetry topics and the MQTT client ID.
// It returns "" only when no source yields one.
func DiscoverDeviceID() string {
	if id := os.Getenv(DeviceIDEnv); id != "" {
		log.Info("DeviceID detected from env", "id", id)
		return id
	}

	for _, path := range deviceIDFiles {
		if id := readID(path); id != "" {
			log.Info("DeviceID detected from file", "id", id, "path", path)
			return id
		}
	}

	if host, err := os.Hostname(); err == nil && host != "" {
		log.Info("DeviceID falling back to hostname", "id", host)
		return host
	}

	return ""
}

func readID(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(content))
}
