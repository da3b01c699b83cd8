package hal

import (
	"fmt"

	"cloupeer.io/chirp/internal/device/core"
)

// wifiLink is the association handle returned by the associators in this package.
type wifiLink struct {
	iface string
	ssid  string
	addr  string
}

var _ core.Link = (*wifiLink)(nil)

func (l *wifiLink) Interface() string { return l.iface }
func (l *wifiLink) SSID() string      { return l.ssid }

// Addr is the address the interface obtained, if known.
func (l *wifiLink) Addr() string { return l.addr }

func (l *wifiLink) String() string {
	if l.addr == "" {
		return fmt.Sprintf("%s@%s", l.ssid, l.iface)
	}
	return fmt.Sprintf("%s@%s (%s)", l.ssid, l.iface, l.addr)
}
