package daemon

import (
	"fmt"
	"net"

	"github.com/lstoned/lsrd/wire"
)

// sendTo encodes m and writes it to addr as a single UDP datagram.
func (d *Daemon) sendTo(addr net.Addr, m wire.Message) error {
	b, err := wire.Encode(m)
	if err != nil {
		return fmt.Errorf("daemon: encode %T: %w", m, err)
	}
	if _, err := d.conn.WriteTo(b, addr); err != nil {
		return fmt.Errorf("daemon: send %T to %s: %w", m, addr, err)
	}
	return nil
}

// floodRaw forwards an already-encoded record to every configured
// neighbor, except the one matching except (if non-nil). Passing a nil
// except floods to every neighbor unconditionally, for advertisements
// this router originates itself.
func (d *Daemon) floodRaw(payload []byte, except *net.UDPAddr) {
	for _, n := range d.neighborCfg {
		addr, ok := d.peerAddr(n.ID)
		if !ok {
			continue
		}
		if except != nil && addr.String() == except.String() {
			continue
		}
		if _, err := d.conn.WriteTo(payload, addr); err != nil {
			d.log.Warn("flood send failed", "neighbor", n.ID, "err", err)
		}
	}
}
