package trigger

import "sync"

// Registry holds one Lifecycle per session key.
type Registry struct {
	mu    sync.Mutex
	items map[int64]*Lifecycle

	// OnDone is installed on every lifecycle the registry creates. It receives
	// the session key with the outcome.
	OnDone func(key int64, snap Snapshot)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[int64]*Lifecycle)}
}

// Get returns the lifecycle for key, creating it on first use.
func (r *Registry) Get(key int64) *Lifecycle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.items[key]; ok {
		return l
	}
	l := &Lifecycle{}
	if r.OnDone != nil {
		onDone := r.OnDone
		l.OnDone = func(s Snapshot) { onDone(key, s) }
	}
	r.items[key] = l
	return l
}

// Peek returns the snapshot for key without creating a lifecycle.
func (r *Registry) Peek(key int64) Snapshot {
	r.mu.Lock()
	l, ok := r.items[key]
	r.mu.Unlock()
	if !ok {
		return Snapshot{State: Idle}
	}
	return l.Snapshot()
}

// Dispose drops the lifecycle for key. A run still in flight is discarded.
func (r *Registry) Dispose(key int64) {
	r.mu.Lock()
	l, ok := r.items[key]
	delete(r.items, key)
	r.mu.Unlock()

	if ok {
		l.Dispose()
	}
}
