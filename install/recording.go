package install

import (
	"context"
	"net"
	"sync"
)

// Recording is an in-memory KernelInstaller that records every call
// instead of mutating the host, for use in tests (spec §9's own
// recommendation).
type Recording struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecording returns an empty recording installer.
func NewRecording() *Recording {
	return &Recording{}
}

// InstallRoute implements KernelInstaller.
func (r *Recording) InstallRoute(_ context.Context, dest *net.IPNet, next net.IP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Dest: dest, Next: next})
	return nil
}

// Entries returns a snapshot of every call recorded so far.
func (r *Recording) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Has reports whether dest/next was recorded at least once, for tests
// that only care that a particular install occurred (spec §8 invariant
// 6: install_kernel_route is called only for destinations the router
// lies on the path of).
func (r *Recording) Has(dest, next string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.Dest.String() == dest && e.Next.String() == next {
			return true
		}
	}
	return false
}
