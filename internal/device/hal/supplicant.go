package hal

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// supplicantConfig renders a wpa_supplicant network block for one network.
// The SSID is always hex encoded so any byte sequence survives; an empty secret means an open network.
func supplicantConfig(ssid, secret string) (string, error) {
	if strings.ContainsAny(secret, "\r\n") {
		return "", fmt.Errorf("network secret must be a single line")
	}
	if secret != "" && !isRawPSK(secret) && !validPassphrase(secret) {
		return "", fmt.Errorf("%w, got %d bytes", ErrInvalidPassphrase, len(secret))
	}

	var b strings.Builder
	b.WriteString("ctrl_interface=/var/run/wpa_supplicant\n")
	b.WriteString("update_config=0\n\n")
	b.WriteString("network={\n")
	fmt.Fprintf(&b, "\tssid=%s\n", hex.EncodeToString([]byte(ssid)))
	b.WriteString("\tscan_ssid=1\n")

	switch {
	case secret == "":
		b.WriteString("\tkey_mgmt=NONE\n")
	case isRawPSK(secret):
		fmt.Fprintf(&b, "\tpsk=%s\n", strings.ToLower(secret))
	default:
		fmt.Fprintf(&b, "\tpsk=\"%s\"\n", secret)
	}

	b.WriteString("}\n")
	return b.String(), nil
}

// isRawPSK reports whether secret is a 256-bit key written as 64 hex digits.
func isRawPSK(secret string) bool {
	if len(secret) != 64 {
		return false
	}
	_, err := hex.DecodeString(secret)
	return err == nil
}

func validPassphrase(secret string) bool {
	if len(secret) < 8 || len(secret) > 63 {
		return false
	}
	for i := 0; i < len(secret); i++ {
		if secret[i] < 0x20 || secret[i] > 0x7e {
			return false
		}
	}
	return true
}
