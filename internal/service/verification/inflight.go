package verification

import "sync"

// inflightGuard tracks batches with an outstanding ledger confirmation so a
// second transition request for the same batch is rejected while the first
// is still settling.
type inflightGuard struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{pending: make(map[string]struct{})}
}

// tryAcquire marks the batch in flight; false when it already is.
func (g *inflightGuard) tryAcquire(batchID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.pending[batchID]; exists {
		return false
	}
	g.pending[batchID] = struct{}{}
	return true
}

// release clears the batch's in-flight mark.
func (g *inflightGuard) release(batchID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, batchID)
}
