package daemon

import (
	"context"
	"time"

	"github.com/lstoned/lsrd/config"
	"github.com/lstoned/lsrd/lsdb"
	"github.com/lstoned/lsrd/wire"
)

// helloLoop sends a HELLO to every configured neighbor once per
// HelloInterval, regardless of whatever this router currently believes
// about that neighbor's liveness — liveness is rebuilt from the HELLOs
// this router receives, never assumed; HELLO_ACK does not affect it
// (spec §4.2).
func (d *Daemon) helloLoop(ctx context.Context) error {
	ticker := time.NewTicker(lsdb.HelloInterval)
	defer ticker.Stop()

	d.sendHellos()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.sendHellos()
		}
	}
}

func (d *Daemon) sendHellos() {
	for _, n := range d.neighborCfg {
		addr, ok := d.peerAddr(n.ID)
		if !ok {
			d.log.Warn("skipping neighbor with unresolvable address", "neighbor", n.ID)
			continue
		}
		if err := d.sendTo(addr, &wire.Hello{From: d.id}); err != nil {
			d.log.Warn("hello send failed", "neighbor", n.ID, "err", err)
		}
	}
}

// advertiseLinks builds this router's current LSA from its own
// configured adjacencies and attached networks, and floods it to every
// configured neighbor — alive or not (spec §4.3: advertisements are not
// gated on the recipient's own liveness state).
func (d *Daemon) advertiseLinks() {
	lsa := &wire.LSALink{Origin: d.id, Seq: d.nextSeq(), Links: d.ownLinks()}

	b, err := wire.Encode(lsa)
	if err != nil {
		d.log.Error("failed to encode own advertisement", "err", err)
		return
	}
	d.floodRaw(b, nil)
}

// ownLinks derives this router's current adjacency and NET pseudo-link
// records directly from its own configuration and liveness table —
// never from the LSDB, which may not yet carry this router's own
// adjacencies until the first advertisement reaches a neighbor.
func (d *Daemon) ownLinks() []wire.Link {
	var out []wire.Link

	for id, n := range d.neighborCfg {
		if !d.neighbors.Alive(id) {
			continue
		}

		a, b := d.id, id
		ipa, ipb := d.localIPFor(n), n.IP
		if a > b {
			a, b, ipa, ipb = b, a, ipb, ipa
		}

		out = append(out, wire.Link{
			ID:       a + "-" + b,
			A:        a,
			B:        b,
			Capacity: n.Capacity,
			Delay:    n.DelayMS,
			Cost:     n.Cost,
			IPA:      ipa,
			IPB:      ipb,
		})
	}

	for _, cidr := range d.attachedNetworks {
		out = append(out, wire.Link{
			ID:      d.id + "-net-" + cidr,
			A:       d.id,
			B:       "NET",
			Network: cidr,
		})
	}

	return out
}

func (d *Daemon) localIPFor(n config.Neighbor) string {
	if n.LocalIP != "" {
		return n.LocalIP
	}
	return d.localIP
}
