package modal

import (
	"sync"
	"time"

	"ats-console/internal/common/metrics"

	"github.com/google/uuid"
)

// Registry keeps component-scoped handles under explicit ids instead of looking
// them up by a global name. Unmount runs the handle's teardown. Every Get counts
// as an access; Expire unmounts handles nobody has touched for a while.
type Registry[T any] struct {
	mu      sync.Mutex
	kind    string
	entries map[string]*entry[T]
	now     func() time.Time
}

type entry[T any] struct {
	handle   T
	teardown func(T)
	lastSeen time.Time
}

func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{kind: kind, entries: make(map[string]*entry[T]), now: time.Now}
}

// Mount stores handle under a fresh id. teardown may be nil.
func (r *Registry[T]) Mount(handle T, teardown func(T)) string {
	id, _ := r.MountFunc(func(string) T { return handle }, teardown)
	return id
}

// MountFunc is Mount for handles that need their own id, such as pages scoping
// cache keys by it.
func (r *Registry[T]) MountFunc(build func(id string) T, teardown func(T)) (string, T) {
	id := uuid.NewString()
	handle := build(id)
	r.mu.Lock()
	r.entries[id] = &entry[T]{handle: handle, teardown: teardown, lastSeen: r.now()}
	r.mu.Unlock()
	metrics.PageSessionsActive.WithLabelValues(r.kind).Inc()
	return id, handle
}

func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = r.now()
	return e.handle, true
}

// Unmount removes id and runs its teardown. It reports whether id was mounted.
func (r *Registry[T]) Unmount(id string) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	r.teardown(e)
	return true
}

func (r *Registry[T]) teardown(e *entry[T]) {
	metrics.PageSessionsActive.WithLabelValues(r.kind).Dec()
	if e.teardown != nil {
		e.teardown(e.handle)
	}
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Expire unmounts every handle last accessed more than idle ago and returns how
// many it removed.
func (r *Registry[T]) Expire(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	var stale []*entry[T]
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, e := range stale {
		r.teardown(e)
	}
	return len(stale)
}

// Janitor runs Expire(idle) every interval until stop is closed. onExpire, when
// set, is called with the count of every sweep that removed something.
func (r *Registry[T]) Janitor(idle, interval time.Duration, stop <-chan struct{}, onExpire func(kind string, n int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := r.Expire(idle); n > 0 && onExpire != nil {
				onExpire(r.kind, n)
			}
		}
	}
}

// Close unmounts everything.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry[T])
	r.mu.Unlock()

	for _, e := range entries {
		r.teardown(e)
	}
}
