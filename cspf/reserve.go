package cspf

import "github.com/lstoned/lsrd/lsdb"

// LinkIDBetween locates the id of the link between two consecutive hops,
// per spec §4.5 step 1: try both "a-b" and "b-a" orderings before
// falling back to the next hop's own recorded LinkID (the link it used
// to reach the current hop during path reconstruction).
func LinkIDBetween(db *lsdb.DB, a, b string, nextHopLinkID string) string {
	if _, ok := db.Get(a + "-" + b); ok {
		return a + "-" + b
	}
	if _, ok := db.Get(b + "-" + a); ok {
		return b + "-" + a
	}
	return nextHopLinkID
}

// ReservePath increments the reservation on every consecutive hop's link
// by bw. Reservations are authoritative only on the computing router
// (spec §4.5); this is a local accounting operation only.
func ReservePath(db *lsdb.DB, path []Hop, bw int) {
	if bw <= 0 {
		return
	}
	for i := 0; i+1 < len(path); i++ {
		linkID := LinkIDBetween(db, path[i].Router, path[i+1].Router, path[i+1].LinkID)
		db.Reserve(linkID, bw)
	}
}
