package cspf_test

import (
	"net"
	"testing"

	"github.com/lstoned/lsrd/cspf"
	"github.com/lstoned/lsrd/lsdb"
)

// triangle builds the three-router topology from spec §8:
//
//	r1-r2: capacity 50, delay 20, cost 1.
//	r2-r3: capacity 10, delay 20, cost 1.
//	r1-r3: capacity 100, delay 1, cost 1.
//	attached networks: r1->10.0.1.0/24, r2->10.0.2.0/24, r3->10.0.3.0/24.
func triangle() *lsdb.DB {
	db := lsdb.New()
	db.Upsert(lsdb.Link{ID: "r1-r2", A: "r1", B: "r2", Capacity: 50, Delay: 20, Cost: 1, IPA: "10.1.2.1", IPB: "10.1.2.2"})
	db.Upsert(lsdb.Link{ID: "r2-r3", A: "r2", B: "r3", Capacity: 10, Delay: 20, Cost: 1, IPA: "10.2.3.2", IPB: "10.2.3.3"})
	db.Upsert(lsdb.Link{ID: "r1-r3", A: "r1", B: "r3", Capacity: 100, Delay: 1, Cost: 1, IPA: "10.1.3.1", IPB: "10.1.3.3"})
	db.Upsert(lsdb.Link{ID: "r1-net-10.0.1.0/24", A: "r1", B: "NET", Network: "10.0.1.0/24"})
	db.Upsert(lsdb.Link{ID: "r2-net-10.0.2.0/24", A: "r2", B: "NET", Network: "10.0.2.0/24"})
	db.Upsert(lsdb.Link{ID: "r3-net-10.0.3.0/24", A: "r3", B: "NET", Network: "10.0.3.0/24"})
	return db
}

func TestShortestPathByMetric(t *testing.T) {
	db := triangle()

	path, err := cspf.Compute(db, "r1", net.ParseIP("10.0.3.10"), 0, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	var routers []string
	for _, h := range path {
		routers = append(routers, h.Router)
	}
	want := []string{"r1", "r3"}
	if len(routers) != len(want) || routers[0] != want[0] || routers[1] != want[1] {
		t.Fatalf("got path %v, want %v", routers, want)
	}

	if path[1].IfaceIP != "10.1.3.3" {
		t.Fatalf("got next-hop iface IP %q, want r3's IP on r1-r3 (10.1.3.3)", path[1].IfaceIP)
	}
	if path[0].IfaceIP != "10.1.3.1" {
		t.Fatalf("got source iface IP %q, want r1's own IP on its first-hop link r1-r3 (10.1.3.1), not the generic localIP", path[0].IfaceIP)
	}
}

func TestBandwidthConstraintForcesDetour(t *testing.T) {
	db := triangle()
	db.Reserve("r1-r3", 100)

	path, err := cspf.Compute(db, "r1", net.ParseIP("10.0.3.10"), 1, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	var routers []string
	for _, h := range path {
		routers = append(routers, h.Router)
	}
	want := []string{"r1", "r2", "r3"}
	if len(routers) != len(want) {
		t.Fatalf("got path %v, want %v", routers, want)
	}
	for i := range want {
		if routers[i] != want[i] {
			t.Fatalf("got path %v, want %v", routers, want)
		}
	}
}

func TestInfeasibleRequestReturnsNoPath(t *testing.T) {
	db := triangle()
	db.Reserve("r1-r3", 0)

	_, err := cspf.Compute(db, "r1", net.ParseIP("10.0.3.10"), 120, nil, "10.0.0.1")
	if err != cspf.ErrNoPath {
		t.Fatalf("got err %v, want ErrNoPath", err)
	}
}

func TestDestinationIsSelf(t *testing.T) {
	db := triangle()

	path, err := cspf.Compute(db, "r1", net.ParseIP("10.0.1.50"), 0, []string{"10.0.1.0/24"}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(path) != 1 || path[0].Router != "r1" || path[0].LinkID != "" {
		t.Fatalf("got %+v, want a single trivial self hop", path)
	}
}

func TestUnknownDestinationReturnsNoPath(t *testing.T) {
	db := triangle()

	_, err := cspf.Compute(db, "r1", net.ParseIP("172.16.0.1"), 0, nil, "10.0.0.1")
	if err != cspf.ErrNoPath {
		t.Fatalf("got err %v, want ErrNoPath", err)
	}
}

func TestLinkIDBetweenTriesBothOrderings(t *testing.T) {
	db := triangle()

	if got := cspf.LinkIDBetween(db, "r1", "r2", ""); got != "r1-r2" {
		t.Fatalf("got %q, want r1-r2", got)
	}
	if got := cspf.LinkIDBetween(db, "r2", "r1", ""); got != "r1-r2" {
		t.Fatalf("got %q, want r1-r2 (reverse ordering)", got)
	}
	if got := cspf.LinkIDBetween(db, "rX", "rY", "fallback"); got != "fallback" {
		t.Fatalf("got %q, want the fallback link id", got)
	}
}

func TestReservePathIsMonotonic(t *testing.T) {
	db := triangle()
	path := []cspf.Hop{{Router: "r1"}, {Router: "r2", LinkID: "r1-r2"}, {Router: "r3", LinkID: "r2-r3"}}

	cspf.ReservePath(db, path, 5)
	cspf.ReservePath(db, path, 3)

	if got := db.Reserved("r1-r2"); got != 8 {
		t.Fatalf("got reservation %d, want 8 (monotonic, never released)", got)
	}
}
