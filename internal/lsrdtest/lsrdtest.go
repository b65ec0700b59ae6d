// Package lsrdtest provides an in-process harness for driving several
// daemon.Daemon instances against each other over real loopback UDP
// sockets, the way the product wires routers together over a real
// network, without needing actual separate hosts or processes.
package lsrdtest

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/lstoned/lsrd/config"
	"github.com/lstoned/lsrd/daemon"
	"github.com/lstoned/lsrd/install"
)

// Router is one harness-managed daemon instance.
type Router struct {
	Daemon    *daemon.Daemon
	Installer *install.Recording
	Config    *config.Config

	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the router's context and waits for its Run goroutine to
// return before returning itself.
func (r *Router) Stop() {
	r.cancel()
	<-r.done
}

func listen(t *testing.T) (net.PacketConn, int) {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("lsrdtest: listen: %v", err)
	}
	return conn, conn.LocalAddr().(*net.UDPAddr).Port
}

// Start constructs a Router from cfg bound to conn and launches it in
// the background.
func Start(t *testing.T, cfg *config.Config, conn net.PacketConn) *Router {
	t.Helper()

	rec := install.NewRecording()
	d := daemon.New(cfg, conn, rec, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := d.Run(ctx); err != nil && err != context.Canceled {
			t.Logf("lsrdtest: router %s exited: %v", cfg.RouterID, err)
		}
	}()

	return &Router{Daemon: d, Installer: rec, Config: cfg, cancel: cancel, done: done}
}

// Triangle wires up the three-router topology used throughout this
// project's tests: r1-r2 (capacity 50, delay 20ms), r2-r3 (capacity 10,
// delay 20ms), r1-r3 (capacity 100, delay 1ms), each router carrying one
// attached /24.
func Triangle(t *testing.T) (r1, r2, r3 *Router) {
	t.Helper()

	c1, p1 := listen(t)
	c2, p2 := listen(t)
	c3, p3 := listen(t)

	cfg1 := &config.Config{
		RouterID:         "r1",
		LocalIP:          "10.0.0.1",
		Port:             p1,
		AttachedNetworks: []string{"10.0.1.0/24"},
		Neighbors: []config.Neighbor{
			{ID: "r2", IP: "127.0.0.1", Port: p2, LocalIP: "10.1.2.1", Capacity: 50, DelayMS: 20, Cost: 1},
			{ID: "r3", IP: "127.0.0.1", Port: p3, LocalIP: "10.1.3.1", Capacity: 100, DelayMS: 1, Cost: 1},
		},
	}
	cfg2 := &config.Config{
		RouterID:         "r2",
		LocalIP:          "10.0.0.2",
		Port:             p2,
		AttachedNetworks: []string{"10.0.2.0/24"},
		Neighbors: []config.Neighbor{
			{ID: "r1", IP: "127.0.0.1", Port: p1, LocalIP: "10.1.2.2", Capacity: 50, DelayMS: 20, Cost: 1},
			{ID: "r3", IP: "127.0.0.1", Port: p3, LocalIP: "10.2.3.2", Capacity: 10, DelayMS: 20, Cost: 1},
		},
	}
	cfg3 := &config.Config{
		RouterID:         "r3",
		LocalIP:          "10.0.0.3",
		Port:             p3,
		AttachedNetworks: []string{"10.0.3.0/24"},
		Neighbors: []config.Neighbor{
			{ID: "r1", IP: "127.0.0.1", Port: p1, LocalIP: "10.1.3.3", Capacity: 100, DelayMS: 1, Cost: 1},
			{ID: "r2", IP: "127.0.0.1", Port: p2, LocalIP: "10.2.3.3", Capacity: 10, DelayMS: 20, Cost: 1},
		},
	}

	r1 = Start(t, cfg1, c1)
	r2 = Start(t, cfg2, c2)
	r3 = Start(t, cfg3, c3)
	return r1, r2, r3
}

// Eventually polls cond every interval until it reports true, failing
// the test with msg if timeout elapses first.
func Eventually(t *testing.T, timeout, interval time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(interval)
	}
	t.Fatalf("lsrdtest: timed out waiting for: %s", msg)
}
