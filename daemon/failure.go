package daemon

import (
	"context"
	"time"

	"github.com/lstoned/lsrd/lsdb"
)

// sweepLoop periodically checks neighbor liveness and repairs the
// topology around any neighbor that has gone quiet for longer than
// lsdb.NeighborDeadInterval (spec §4.6).
func (d *Daemon) sweepLoop(ctx context.Context) error {
	ticker := time.NewTicker(lsdb.HelloInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.sweepDead()
		}
	}
}

// sweepDead purges every link touching a dead neighbor from the
// database, forgets its liveness entry so that a later HELLO from it is
// treated as a fresh adjacency, re-advertises this router's own
// (now-smaller) link set, and schedules a route recomputation.
func (d *Daemon) sweepDead() {
	dead := d.neighbors.Dead()
	if len(dead) == 0 {
		return
	}

	for _, id := range dead {
		d.db.PurgeRouter(id)
		d.neighbors.Forget(id)
		d.log.Info("neighbor declared dead", "neighbor", id)
	}

	d.advertiseLinks()
	d.markDirty()
}
