package daemon

import (
	"context"
	"net"
	"time"

	"github.com/lstoned/lsrd/cspf"
	"github.com/lstoned/lsrd/install"
	"github.com/lstoned/lsrd/lsdb"
	"github.com/lstoned/lsrd/wire"
)

// bootstrapDelay gives the first round of HELLOs a chance to land
// before this router advertises its own links and attempts a first
// route computation.
const bootstrapDelay = 3 * lsdb.HelloInterval

// bootstrap runs once at startup: it waits for neighbor discovery to
// get a head start, then advertises this router's own links and
// computes routes to everything currently known (spec §4.7).
func (d *Daemon) bootstrap(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(bootstrapDelay):
	}

	d.advertiseLinks()
	d.reinstallAll(ctx)
}

// recomputeLoop consumes dirty signals and re-runs the full route
// recomputation once per signal. The dirty channel coalesces concurrent
// triggers into at most one pending recomputation, in place of spawning
// a worker per LSDB change (spec §9 redesign).
func (d *Daemon) recomputeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.dirty:
			d.reinstallAll(ctx)
		}
	}
}

// reinstallAll recomputes and installs a best-effort, unreserved (bw=0)
// path to every network named in the link-state database that this
// router is not itself attached to (spec §4.7).
func (d *Daemon) reinstallAll(ctx context.Context) {
	attached := make(map[string]bool, len(d.attachedNetworks))
	for _, cidr := range d.attachedNetworks {
		attached[cidr] = true
	}

	for _, cidr := range d.db.Networks() {
		if attached[cidr] {
			continue
		}

		probe, err := firstHostAddr(cidr)
		if err != nil {
			d.log.Warn("skipping unprobeable network", "network", cidr, "err", err)
			continue
		}

		path, err := cspf.Compute(d.db, d.id, probe, 0, d.attachedNetworks, d.localIP)
		if err != nil {
			d.log.Info("no path to network", "network", cidr, "err", err)
			continue
		}

		cspf.ReservePath(d.db, path, 0)
		d.installPath(ctx, cidr, path)
	}
}

// firstHostAddr returns the first host address in cidr, used to probe
// the link-state database for a router advertising that network (spec
// §4.7).
func firstHostAddr(cidr string) (net.IP, error) {
	_, n, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	host := make(net.IP, len(n.IP))
	copy(host, n.IP)
	host[len(host)-1]++
	return host, nil
}

// installPath implements the distributed half of route installation
// (spec §4.5 step 3). path[0] is always this router: its forwarding
// entry is installed directly through the injected KernelInstaller.
// Every later hop except the last (the destination router, which has no
// next hop) is told to install its own entry via an INSTALL_ROUTE sent
// to its address — a configured neighbor's address when this router has
// one, otherwise whatever address the link-state database records for it.
func (d *Daemon) installPath(ctx context.Context, dest string, path []cspf.Hop) {
	destNet, err := install.DestNetwork(dest)
	if err != nil {
		d.log.Warn("installPath: bad destination", "dest", dest, "err", err)
		return
	}

	for i := 0; i+1 < len(path); i++ {
		next := net.ParseIP(path[i+1].IfaceIP)
		if next == nil {
			d.log.Warn("installPath: missing interface address", "hop", path[i+1].Router)
			continue
		}

		if path[i].Router == d.id {
			if err := d.installer.InstallRoute(ctx, destNet, next); err != nil {
				d.log.Warn("local install failed", "dest", destNet, "next", next, "err", err)
			}
			continue
		}

		addr, ok := d.routerAddr(path[i].Router)
		if !ok {
			d.log.Warn("installPath: no address for hop", "router", path[i].Router)
			continue
		}
		if err := d.sendTo(addr, &wire.InstallRoute{Dest: destNet.String(), Next: next.String()}); err != nil {
			d.log.Warn("remote install failed", "router", path[i].Router, "err", err)
		}
	}
}
