package recorder

import (
	"os"
	"sync"
)

// Registry tracks every live capture process so a termination signal can be
// forwarded to each of them before the program exits. The supervisor is the
// only mutator (add on launch, remove on exit); the shutdown coordinator only
// signals. After Close no new registration is accepted, guaranteeing no
// process outlives the beginning of teardown unsupervised.
type Registry struct {
	mu     sync.Mutex
	procs  map[string]Handle
	closed bool
}

// NewRegistry returns an empty process registry.
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]Handle)}
}

// Register adds a live attempt handle under the session id. It returns false
// once shutdown has begun; the caller must then stop the process itself.
func (r *Registry) Register(id string, h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.procs[id] = h
	return true
}

// Unregister removes a finished attempt. Unknown ids are ignored.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.procs, id)
}

// Len reports the number of live attempts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

// Closed reports whether shutdown has begun.
func (r *Registry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close marks the registry closed and signals every live process once,
// fire-and-forget. Calling it again signals nothing: membership is drained on
// the first call, so double shutdown cannot double-signal.
func (r *Registry) Close(sig os.Signal) {
	r.mu.Lock()
	r.closed = true
	drained := make([]Handle, 0, len(r.procs))
	for _, h := range r.procs {
		drained = append(drained, h)
	}
	r.procs = make(map[string]Handle)
	r.mu.Unlock()

	for _, h := range drained {
		_ = h.Signal(sig)
	}
}
