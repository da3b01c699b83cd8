package hal

import "errors"

var (
	// ErrEmptySSID is returned for every attempt while no network name is configured.
	ErrEmptySSID = errors.New("no network name configured")

	// ErrNoAccessPoint is returned by the simulated associator for scripted failures.
	ErrNoAccessPoint = errors.New("no access point in range")

	// ErrInvalidPassphrase is returned for a WPA passphrase wpa_supplicant would reject.
	ErrInvalidPassphrase = errors.New("WPA passphrase must be 8 to 63 printable ASCII characters")

	// ErrAssociationTimeout is returned when the link does not come up in time.
	ErrAssociationTimeout = errors.New("association timed out")
)
