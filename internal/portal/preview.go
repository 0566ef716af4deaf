package portal

import "sync"

// previewTracker guarantees that only the scoring response matching the
// latest issued preview request is applied. Each request takes a
// monotonically increasing sequence number; responses carrying an older
// sequence are discarded unconditionally. No cancellation primitive is
// needed, only comparison against the latest sequence under a mutex.
type previewTracker struct {
	mu     sync.Mutex
	latest uint64
}

// begin issues the next sequence number, superseding all prior requests.
func (p *previewTracker) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latest++
	return p.latest
}

// current reports whether seq is still the latest issued request.
func (p *previewTracker) current(seq uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return seq == p.latest
}
