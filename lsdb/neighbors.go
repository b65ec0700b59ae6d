package lsdb

import (
	"sync"
	"time"
)

// HelloInterval is the period at which a router transmits HELLO to each
// configured neighbor (spec §4.2).
const HelloInterval = 2 * time.Second

// NeighborDeadInterval is the maximum gap since the last HELLO before a
// neighbor is declared dead (spec §4.2): 4 * HelloInterval.
const NeighborDeadInterval = 4 * HelloInterval

// Neighbors tracks per-neighbor liveness timestamps. The reference
// implementation this spec is modeled on left this table unprotected
// across goroutines (spec §9); here it is guarded by its own RWMutex,
// independent of the DB lock, so a liveness check never blocks on LSDB
// work and vice versa.
type Neighbors struct {
	mu       sync.RWMutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewNeighbors returns an empty liveness table using the real wall
// clock. Tests that need deterministic timing can substitute the clock
// with SetClock.
func NewNeighbors() *Neighbors {
	return &Neighbors{
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// SetClock overrides the table's notion of "now", for tests.
func (n *Neighbors) SetClock(now func() time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.now = now
}

// Stamp records a HELLO arrival from id at the current time.
func (n *Neighbors) Stamp(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastSeen[id] = n.now()
}

// Alive reports whether id has been heard from within NeighborDeadInterval.
func (n *Neighbors) Alive(id string) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	ts, ok := n.lastSeen[id]
	if !ok {
		return false
	}
	return n.now().Sub(ts) <= NeighborDeadInterval
}

// AliveNeighbors returns the ids of every neighbor currently considered alive.
func (n *Neighbors) AliveNeighbors() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	now := n.now()
	var out []string
	for id, ts := range n.lastSeen {
		if now.Sub(ts) <= NeighborDeadInterval {
			out = append(out, id)
		}
	}
	return out
}

// Dead returns the ids of every neighbor whose liveness entry has
// exceeded NeighborDeadInterval.
func (n *Neighbors) Dead() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	now := n.now()
	var out []string
	for id, ts := range n.lastSeen {
		if now.Sub(ts) > NeighborDeadInterval {
			out = append(out, id)
		}
	}
	return out
}

// Forget removes id from the liveness table.
func (n *Neighbors) Forget(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.lastSeen, id)
}
