package daemon_test

import (
	"testing"
	"time"

	"github.com/lstoned/lsrd/internal/lsrdtest"
)

// TestTriangleConvergesAndInstallsShortestPaths exercises the full
// protocol stack end-to-end over real loopback sockets: neighbor
// discovery, LSA flooding, bootstrap route computation, and local route
// installation, against the triangle topology from spec §8.
func TestTriangleConvergesAndInstallsShortestPaths(t *testing.T) {
	r1, r2, r3 := lsrdtest.Triangle(t)
	defer r1.Stop()
	defer r2.Stop()
	defer r3.Stop()

	lsrdtest.Eventually(t, 20*time.Second, 250*time.Millisecond,
		"r1 installs a route to r3's attached network via the direct r1-r3 link", func() bool {
			return r1.Installer.Has("10.0.3.0/24", "10.1.3.3")
		})

	lsrdtest.Eventually(t, 5*time.Second, 100*time.Millisecond,
		"r1 installs a route to r2's attached network via the direct r1-r2 link", func() bool {
			return r1.Installer.Has("10.0.2.0/24", "10.1.2.2")
		})

	lsrdtest.Eventually(t, 5*time.Second, 100*time.Millisecond,
		"r3 installs a route to r1's attached network via the direct r1-r3 link", func() bool {
			return r3.Installer.Has("10.0.1.0/24", "10.1.3.1")
		})
}

// TestNeighborFailurePurgesTopology verifies spec §4.6: once a neighbor
// stops sending HELLO for longer than the dead interval, the survivors
// purge every link referencing it from their link-state database.
func TestNeighborFailurePurgesTopology(t *testing.T) {
	r1, r2, r3 := lsrdtest.Triangle(t)
	defer r1.Stop()
	defer r2.Stop()

	lsrdtest.Eventually(t, 20*time.Second, 250*time.Millisecond,
		"r1 learns the r1-r3 adjacency", func() bool {
			_, ok := r1.Daemon.DB().Get("r1-r3")
			return ok
		})

	r3.Stop()

	lsrdtest.Eventually(t, 20*time.Second, 250*time.Millisecond,
		"r1 purges the r1-r3 adjacency once r3 goes quiet", func() bool {
			_, ok := r1.Daemon.DB().Get("r1-r3")
			return !ok
		})
}
