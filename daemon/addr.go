package daemon

import (
	"net"

	"github.com/lstoned/lsrd/config"
)

// udpAddr builds a *net.UDPAddr from a textual IP and an optional port
// (0 means "use the default control port").
func (d *Daemon) udpAddr(ip string, port int) (*net.UDPAddr, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, false
	}
	if port == 0 {
		port = config.DefaultPort
	}
	return &net.UDPAddr{IP: parsed, Port: port}, true
}

// peerAddr resolves the UDP address of a configured neighbor.
func (d *Daemon) peerAddr(id string) (*net.UDPAddr, bool) {
	n, ok := d.neighborCfg[id]
	if !ok {
		return nil, false
	}
	return d.udpAddr(n.IP, n.Port)
}

// routerAddr resolves where to send a control message destined for an
// arbitrary router named in a computed path: a configured neighbor's
// address if router is a direct neighbor, otherwise router's interface
// address on a link between router and this one, as recorded in the
// link-state database.
func (d *Daemon) routerAddr(router string) (*net.UDPAddr, bool) {
	if addr, ok := d.peerAddr(router); ok {
		return addr, true
	}

	for _, l := range d.db.All() {
		if l.IsNetPseudoLink() {
			continue
		}
		if l.A == router && l.B == d.id {
			return d.udpAddr(l.IPA, 0)
		}
		if l.B == router && l.A == d.id {
			return d.udpAddr(l.IPB, 0)
		}
	}
	return nil, false
}
