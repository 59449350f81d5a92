package api

import "sync"

// Gate serializes "latest request wins" for a view that refetches on every
// filter change. A fetch takes a ticket with Begin, and only commits its
// result if no newer fetch started in the meantime.
type Gate struct {
	mu     sync.Mutex
	latest uint64
}

// Begin marks the start of a new fetch and returns its ticket. Any ticket
// issued earlier becomes stale.
func (g *Gate) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

// Commit reports whether the ticket still belongs to the newest fetch. Stale
// results must be dropped, not rendered.
func (g *Gate) Commit(ticket uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ticket == g.latest
}
