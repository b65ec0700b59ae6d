// Package cspf implements constrained shortest-path-first route
// computation: it builds a weighted graph from the link-state database
// minus current bandwidth reservations and runs Dijkstra over it,
// using a container/heap priority queue in the same shape as the
// link-state routing references in the wider pack this daemon draws
// from.
package cspf

import (
	"container/heap"
	"errors"
	"net"

	"github.com/lstoned/lsrd/lsdb"
)

// ErrNoPath is returned when no feasible path exists, either because the
// destination cannot be resolved to a router or because no route
// survives the bandwidth constraint.
var ErrNoPath = errors.New("cspf: no path")

// Hop is one step of a computed path, source-to-destination.
type Hop struct {
	Router string
	// LinkID is the link toward the previous hop; empty for the source.
	LinkID string
	// IfaceIP is this router's interface address on that link.
	IfaceIP string
}

// edge is one directed, weighted connection in the SPF graph.
type edge struct {
	to     string
	linkID string
	metric float64
}

// graph is an adjacency list built from non-NET LSDB entries.
type graph map[string][]edge

// metric implements spec §4.4's formula: cost dominates, delay is a
// fine-grained tie-breaker, and the inverse-available-bandwidth term
// biases away from near-full links.
func metric(cost, delay, capacity, reserved int) float64 {
	avail := capacity - reserved
	if avail < 1 {
		avail = 1
	}
	return float64(cost) + float64(delay)/100 + 1/float64(avail)
}

// buildGraph constructs an undirected weighted graph from db's non-NET
// entries, including only links with enough spare capacity for bw. It
// also returns the link records themselves, keyed by id, so that path
// reconstruction can later determine which endpoint's interface IP
// belongs to a given router.
func buildGraph(db *lsdb.DB, bw int) (graph, map[string]lsdb.Link) {
	g := make(graph)
	byID := make(map[string]lsdb.Link)

	db.WithLock(func(links map[string]lsdb.Link, reserve map[string]int) {
		for _, l := range links {
			if l.IsNetPseudoLink() {
				continue
			}
			avail := l.Capacity - reserve[l.ID]
			if avail < bw {
				continue
			}

			byID[l.ID] = l
			m := metric(l.Cost, l.Delay, l.Capacity, reserve[l.ID])
			g[l.A] = append(g[l.A], edge{to: l.B, linkID: l.ID, metric: m})
			g[l.B] = append(g[l.B], edge{to: l.A, linkID: l.ID, metric: m})
		}
	})

	return g, byID
}

// item is a Dijkstra frontier entry.
type item struct {
	router string
	dist   float64
	// seq preserves insertion order so that equal-distance ties resolve
	// to whichever candidate was discovered first, per spec §4.4.
	seq   int
	index int
}

type priorityQueue []*item

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	it := x.(*item)
	it.index = len(*pq)
	*pq = append(*pq, it)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return it
}

// predecessor records how a router was first reached during Dijkstra:
// from which router, over which link.
type predecessor struct {
	from   string
	linkID string
}

// dijkstra runs Dijkstra's algorithm from src over g, terminating as
// soon as dest is popped (or the frontier is exhausted).
func dijkstra(g graph, src, dest string) (prev map[string]predecessor, ok bool) {
	dist := map[string]float64{src: 0}
	prev = make(map[string]predecessor)
	visited := make(map[string]bool)

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &item{router: src, dist: 0, seq: 0})
	seq := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*item)
		if visited[cur.router] {
			continue
		}
		visited[cur.router] = true

		if cur.router == dest {
			return prev, true
		}

		for _, e := range g[cur.router] {
			if visited[e.to] {
				continue
			}
			nd := cur.dist + e.metric
			if existing, ok := dist[e.to]; !ok || nd < existing {
				dist[e.to] = nd
				prev[e.to] = predecessor{from: cur.router, linkID: e.linkID}

				heap.Push(pq, &item{router: e.to, dist: nd, seq: seq})
				seq++
			}
		}
	}

	return prev, false
}

// ifaceIPOn returns router's own interface address on linkID.
func ifaceIPOn(byID map[string]lsdb.Link, linkID, router string) string {
	l, ok := byID[linkID]
	if !ok {
		return ""
	}
	if l.A == router {
		return l.IPA
	}
	return l.IPB
}

// reconstruct walks prev back from dest to src, producing hops ordered
// source-to-destination, each carrying the router's own interface IP on
// the link toward its predecessor. The source hop carries src's own
// interface IP on its first-hop link (spec §4.4), falling back to
// localIP only when that link's record carries no address for src.
func reconstruct(src, dest string, prev map[string]predecessor, byID map[string]lsdb.Link, localIP string) []Hop {
	type step struct {
		router  string
		linkID  string
		ifaceIP string
	}

	var rev []step
	cur := dest
	for cur != src {
		p, ok := prev[cur]
		if !ok {
			return nil
		}
		rev = append(rev, step{router: cur, linkID: p.linkID, ifaceIP: ifaceIPOn(byID, p.linkID, cur)})
		cur = p.from
	}

	srcIfaceIP := localIP
	if len(rev) > 0 {
		if ip := ifaceIPOn(byID, rev[len(rev)-1].linkID, src); ip != "" {
			srcIfaceIP = ip
		}
	}
	rev = append(rev, step{router: src, linkID: "", ifaceIP: srcIfaceIP})

	hops := make([]Hop, len(rev))
	for i, s := range rev {
		hops[len(rev)-1-i] = Hop{Router: s.router, LinkID: s.linkID, IfaceIP: s.ifaceIP}
	}
	return hops
}

// Compute resolves destIP to a router via the NET pseudo-links in db,
// builds the bandwidth-constrained graph, and runs Dijkstra from src.
//
// attachedNetworks are the router's own attached CIDRs, checked before
// falling back to "no path" when destIP resolves to neither a known
// router nor the local node. localIP is src's own interface address,
// used to populate the source hop (including the trivial
// destination-is-self case).
func Compute(db *lsdb.DB, src string, destIP net.IP, bw int, attachedNetworks []string, localIP string) ([]Hop, error) {
	destRouter, ok := db.ResolveNetwork(destIP)
	if !ok {
		for _, cidr := range attachedNetworks {
			_, n, err := net.ParseCIDR(cidr)
			if err == nil && n.Contains(destIP) {
				return []Hop{{Router: src, IfaceIP: localIP}}, nil
			}
		}
		return nil, ErrNoPath
	}

	if destRouter == src {
		return []Hop{{Router: src, IfaceIP: localIP}}, nil
	}

	g, byID := buildGraph(db, bw)
	prev, ok := dijkstra(g, src, destRouter)
	if !ok {
		return nil, ErrNoPath
	}

	hops := reconstruct(src, destRouter, prev, byID, localIP)
	if hops == nil {
		return nil, ErrNoPath
	}
	return hops, nil
}
