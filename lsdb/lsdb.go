// Package lsdb holds a router's replicated view of the network: the
// link-state database, the neighbor liveness table, the reservation
// ledger, and the seen-LSA set that protects flooding from looping.
//
// All four pieces of state are owned exclusively by the daemon process;
// the LSDB and reservation ledger share one lock (spec §5), while the
// liveness table and seen-LSA set are each guarded independently.
package lsdb

import (
	"net"
	"sync"

	"github.com/lstoned/lsrd/wire"
)

// Link is the in-memory form of an LSDB record. It mirrors wire.Link;
// keeping a distinct type here (rather than reusing wire.Link directly)
// lets the wire format evolve independently of the database's internal
// representation.
type Link struct {
	ID       string
	A, B     string
	Capacity int
	Delay    int
	Cost     int
	IPA, IPB string
	Network  string
}

// IsNetPseudoLink reports whether l is a NET pseudo-link.
func (l Link) IsNetPseudoLink() bool { return l.B == "NET" }

// FromWire converts a wire.Link into the database's internal Link type.
func FromWire(w wire.Link) Link {
	return Link{
		ID: w.ID, A: w.A, B: w.B,
		Capacity: w.Capacity, Delay: w.Delay, Cost: w.Cost,
		IPA: w.IPA, IPB: w.IPB, Network: w.Network,
	}
}

// ToWire converts a Link back into its wire representation.
func (l Link) ToWire() wire.Link {
	return wire.Link{
		ID: l.ID, A: l.A, B: l.B,
		Capacity: l.Capacity, Delay: l.Delay, Cost: l.Cost,
		IPA: l.IPA, IPB: l.IPB, Network: l.Network,
	}
}

// DB is a router's link-state database plus reservation ledger. Both are
// protected by a single mutex, per spec §5: acquisition is always short
// and never held across I/O or process invocation.
type DB struct {
	mu      sync.Mutex
	links   map[string]Link
	reserve map[string]int
}

// New returns an empty link-state database.
func New() *DB {
	return &DB{
		links:   make(map[string]Link),
		reserve: make(map[string]int),
	}
}

// Upsert inserts or replaces the record for l.ID if it is absent or the
// stored record value-differs. It reports whether the database changed.
func (db *DB) Upsert(l Link) (changed bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	existing, ok := db.links[l.ID]
	if ok && existing == l {
		return false
	}
	db.links[l.ID] = l
	return true
}

// Get returns the record for id, if present.
func (db *DB) Get(id string) (Link, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.links[id]
	return l, ok
}

// All returns a snapshot of every record currently in the database.
func (db *DB) All() []Link {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]Link, 0, len(db.links))
	for _, l := range db.links {
		out = append(out, l)
	}
	return out
}

// PurgeRouter removes every link record with A or B equal to router, and
// deletes the corresponding reservation entries. It returns the removed
// records (empty when nothing matched).
func (db *DB) PurgeRouter(router string) (removed []Link) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for id, l := range db.links {
		if l.A == router || l.B == router {
			delete(db.links, id)
			delete(db.reserve, id)
			removed = append(removed, l)
		}
	}
	return removed
}

// Reserved returns the currently reserved bandwidth on linkID.
func (db *DB) Reserved(linkID string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.reserve[linkID]
}

// Reserve increments the reservation on linkID by bw. Reservations are
// monotonic and never released (spec §9 Open Questions).
func (db *DB) Reserve(linkID string, bw int) {
	if bw <= 0 {
		return
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.reserve[linkID] += bw
}

// WithLock runs f while holding the database lock, for callers (the CSPF
// graph builder) that need a consistent snapshot of links and
// reservations together.
func (db *DB) WithLock(f func(links map[string]Link, reserve map[string]int)) {
	db.mu.Lock()
	defer db.mu.Unlock()
	f(db.links, db.reserve)
}

// ResolveNetwork scans the database for a NET pseudo-link whose network
// contains ip, returning the associated router id.
func (db *DB) ResolveNetwork(ip net.IP) (router string, ok bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, l := range db.links {
		if !l.IsNetPseudoLink() || l.Network == "" {
			continue
		}
		_, cidr, err := net.ParseCIDR(l.Network)
		if err != nil {
			continue
		}
		if cidr.Contains(ip) {
			return l.A, true
		}
	}
	return "", false
}

// Networks returns the set of distinct CIDRs named by NET pseudo-links
// currently in the database.
func (db *DB) Networks() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[string]struct{})
	var out []string
	for _, l := range db.links {
		if !l.IsNetPseudoLink() || l.Network == "" {
			continue
		}
		if _, ok := seen[l.Network]; ok {
			continue
		}
		seen[l.Network] = struct{}{}
		out = append(out, l.Network)
	}
	return out
}
