package recorder

import "sync"

// RetryState tracks consecutive fast failures per channel. It is keyed by
// channel name only, so repeated short-lived failures escalate the backoff
// even across different recording sessions of the same channel.
type RetryState struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewRetryState returns an empty per-channel failure tracker.
func NewRetryState() *RetryState {
	return &RetryState{counts: make(map[string]int)}
}

// Count returns the current consecutive fast-failure count for a channel.
func (r *RetryState) Count(channel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[channel]
}

// SetCount stores the counter a policy decision produced for a channel.
func (r *RetryState) SetCount(channel string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if count == 0 {
		delete(r.counts, channel)
		return
	}
	r.counts[channel] = count
}
