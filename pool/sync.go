package pool

import "sync"

// SyncPool serializes every mutating operation of an underlying Pool behind a
// mutex for use by concurrent callers. The free-list mutation and the dispatch
// flip are not atomic as a pair, so a single lock must cover both.
type SyncPool[T, A any] struct {
	mu   sync.Mutex
	pool *Pool[T, A]
}

// NewSync constructs a mutex-serialized pool with the same validation rules as
// New.
func NewSync[T, A any](allocate Allocator[T, A], renew Renewer[T, A], opts ...Option[T]) (*SyncPool[T, A], error) {
	p, err := New(allocate, renew, opts...)
	if err != nil {
		return nil, err
	}
	return &SyncPool[T, A]{pool: p}, nil
}

// Reinit re-validates and re-assigns all callbacks under the lock.
func (sp *SyncPool[T, A]) Reinit(allocate Allocator[T, A], renew Renewer[T, A], opts ...Option[T]) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.pool.Reinit(allocate, renew, opts...)
}

// Create returns a new or renewed object. The supplied callbacks run under the
// pool lock and must not call back into the pool.
func (sp *SyncPool[T, A]) Create(arg A) T {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.pool.Create(arg)
}

// Pull withdraws the most recently destroyed object without renewing it.
func (sp *SyncPool[T, A]) Pull() (T, bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.pool.Pull()
}

// Destroy returns an object to the free list.
func (sp *SyncPool[T, A]) Destroy(obj T) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.pool.Destroy(obj)
}

// Drain withdraws and discards every pooled object.
func (sp *SyncPool[T, A]) Drain() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.pool.Drain()
}

// Clear empties the backing store in one step.
func (sp *SyncPool[T, A]) Clear() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.pool.Clear()
}

// Len reports the number of objects currently held by the free list.
func (sp *SyncPool[T, A]) Len() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.pool.Len()
}

// Active reports the dispatch state Create will act on next.
func (sp *SyncPool[T, A]) Active() DispatchState {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.pool.Active()
}

// Stats returns a snapshot of cumulative pool activity.
func (sp *SyncPool[T, A]) Stats() Stats {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.pool.Stats()
}
