package daemon

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"

	"github.com/lstoned/lsrd/cspf"
	"github.com/lstoned/lsrd/install"
	"github.com/lstoned/lsrd/lsdb"
	"github.com/lstoned/lsrd/wire"
)

// receiveLoop is the daemon's single reader: it pulls datagrams off the
// socket and dispatches each to handleDatagram in turn. Closing the
// socket on context cancellation is the same shutdown shape the teacher
// package's receive loop uses to unblock a pending read.
func (d *Daemon) receiveLoop(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			d.conn.Close()
		case <-stop:
		}
	}()

	buf := make([]byte, wire.MaxDatagramSize)
	for {
		n, addr, err := d.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("daemon: read: %w", err)
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		d.handleDatagram(ctx, addr, payload)
	}
}

// handleDatagram decodes and dispatches one inbound record. A panic
// while handling a single datagram is recovered here so that one
// malformed or unexpected message can never take the receive loop down
// with it (spec §7).
func (d *Daemon) handleDatagram(ctx context.Context, addr net.Addr, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("recovered from panic handling datagram", "panic", r, "from", addr, "stack", string(debug.Stack()))
		}
	}()

	msg, err := wire.Decode(payload)
	if err != nil {
		d.log.Warn("dropping malformed datagram", "from", addr, "err", err)
		return
	}

	switch m := msg.(type) {
	case *wire.Hello:
		d.handleHello(addr, m)
	case *wire.HelloAck:
		// carries no state obligation for the receiver (spec §4.2).
	case *wire.LSALink:
		d.handleLSA(addr, m, payload)
	case *wire.RequestRoute:
		d.handleRequestRoute(ctx, addr, m)
	case *wire.InstallRoute:
		d.handleInstallRoute(ctx, m)
	case *wire.RequestReply:
		// this router never originates REQUEST_ROUTE on its own behalf,
		// so an inbound reply here only comes from a misbehaving peer.
		d.log.Warn("unexpected request_reply", "from", addr)
	}
}

func (d *Daemon) handleHello(addr net.Addr, m *wire.Hello) {
	d.neighbors.Stamp(m.From)
	if err := d.sendTo(addr, &wire.HelloAck{From: d.id}); err != nil {
		d.log.Warn("hello_ack send failed", "to", m.From, "err", err)
	}
	d.advertiseLinks()
}

// handleLSA applies loop suppression and split-horizon flooding to one
// inbound advertisement (spec §4.3): an (origin, seq) pair already seen
// is dropped silently; otherwise every link record is merged into the
// database and the raw datagram is re-flooded to every neighbor except
// whichever one it arrived from.
func (d *Daemon) handleLSA(addr net.Addr, m *wire.LSALink, raw []byte) {
	if m.Origin == d.id {
		return
	}
	if !d.seen.InsertIfNew(m.Origin, m.Seq) {
		return
	}

	changed := false
	for _, wl := range m.Links {
		if d.db.Upsert(lsdb.FromWire(wl)) {
			changed = true
		}
	}

	var except *net.UDPAddr
	if ua, ok := addr.(*net.UDPAddr); ok {
		except = ua
	}
	d.floodRaw(raw, except)

	if changed {
		d.markDirty()
	}
}

func (d *Daemon) handleRequestRoute(ctx context.Context, addr net.Addr, m *wire.RequestRoute) {
	destIP := parseDestIP(m.Dest)
	if destIP == nil {
		d.log.Warn("request_route: unparseable destination", "dest", m.Dest)
		d.sendTo(addr, &wire.RequestReply{})
		return
	}

	path, err := cspf.Compute(d.db, d.id, destIP, m.BW, d.attachedNetworks, d.localIP)
	if err != nil {
		d.log.Info("no feasible path", "dest", m.Dest, "bw", m.BW, "err", err)
		d.sendTo(addr, &wire.RequestReply{})
		return
	}

	cspf.ReservePath(d.db, path, m.BW)
	d.installPath(ctx, m.Dest, path)

	if err := d.sendTo(addr, &wire.RequestReply{Path: toWireHops(path)}); err != nil {
		d.log.Warn("request_reply send failed", "to", addr, "err", err)
	}
}

func (d *Daemon) handleInstallRoute(ctx context.Context, m *wire.InstallRoute) {
	destNet, err := install.DestNetwork(m.Dest)
	if err != nil {
		d.log.Warn("install_route: bad destination", "dest", m.Dest, "err", err)
		return
	}
	next := net.ParseIP(m.Next)
	if next == nil {
		d.log.Warn("install_route: bad next hop", "next", m.Next)
		return
	}
	// Installed unconditionally: spec §4.5 step 3 trusts the requester
	// that dispatched this message, with no independent verification.
	if err := d.installer.InstallRoute(ctx, destNet, next); err != nil {
		d.log.Warn("install_route failed", "dest", destNet, "next", next, "err", err)
	}
}

func parseDestIP(dest string) net.IP {
	if ip, _, err := net.ParseCIDR(dest); err == nil {
		return ip
	}
	return net.ParseIP(dest)
}

func toWireHops(hops []cspf.Hop) []wire.Hop {
	out := make([]wire.Hop, len(hops))
	for i, h := range hops {
		out[i] = wire.Hop{Router: h.Router, LinkID: h.LinkID, IfaceIP: h.IfaceIP}
	}
	return out
}
