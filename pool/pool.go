// Package pool provides a freelist-backed object pool with caller-supplied
// allocate, renew, and dispose callbacks.
package pool

import (
	"github.com/coachpo/freepool/errs"
)

const scopePool = "pool"

// Allocator produces a brand-new instance from the construction argument.
type Allocator[T, A any] func(arg A) T

// Renewer reinitializes a recycled instance with the construction argument and
// returns it ready for use.
type Renewer[T, A any] func(obj T, arg A) T

// Disposer releases an object's internal resources when the object is returned
// to the pool. It must not invalidate the object itself; the pool keeps the
// object eligible for reuse.
type Disposer[T any] func(obj T)

// NoArg is the construction argument for pools whose callbacks need none.
type NoArg struct{}

// Pool recycles objects of type T through a LIFO free list. Create either
// allocates a fresh object or renews a recycled one depending on the dispatch
// state, which flips only at the empty/non-empty boundary of the free list.
//
// A Pool is not safe for concurrent use; wrap shared instances in a SyncPool.
type Pool[T, A any] struct {
	freeList []T
	allocate Allocator[T, A]
	renew    Renewer[T, A]
	dispose  Disposer[T]
	state    DispatchState
	metrics  *Metrics
	debug    *debugState

	allocations uint64
	renewals    uint64
	destroys    uint64
	drains      uint64
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Allocations uint64 `json:"allocations"`
	Renewals    uint64 `json:"renewals"`
	Destroys    uint64 `json:"destroys"`
	Drains      uint64 `json:"drains"`
	FreeListLen int    `json:"freeListLen"`
}

// New constructs a pool from the required allocate and renew callbacks.
// It fails with an errs.CodeTypeKind envelope when either required callback is
// nil, or when WithDispose was supplied a nil callback.
func New[T, A any](allocate Allocator[T, A], renew Renewer[T, A], opts ...Option[T]) (*Pool[T, A], error) {
	p := new(Pool[T, A])
	if err := p.Reinit(allocate, renew, opts...); err != nil {
		return nil, err
	}
	return p, nil
}

// Reinit re-validates and re-assigns all callbacks on an existing pool and
// resets dispatch to the allocate state. Existing free-list contents are left
// untouched; discarding them is the caller's responsibility (Drain or Clear).
func (p *Pool[T, A]) Reinit(allocate Allocator[T, A], renew Renewer[T, A], opts ...Option[T]) error {
	if allocate == nil {
		return errs.New(scopePool, errs.CodeTypeKind, errs.WithMessage("allocate callback must be a function"))
	}
	if renew == nil {
		return errs.New(scopePool, errs.CodeTypeKind, errs.WithMessage("renew callback must be a function"))
	}
	var o options[T]
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.disposeSet && o.dispose == nil {
		return errs.New(scopePool, errs.CodeTypeKind, errs.WithMessage("dispose callback provided but not a function"))
	}

	p.allocate = allocate
	p.renew = renew
	p.dispose = o.dispose
	p.metrics = o.metrics
	if p.debug == nil {
		p.debug = newDebugState(o.name)
	}
	p.state = StateAllocate
	return nil
}

// Create returns an object ready for use: a renewed one from the free list
// when recycled objects are available, a freshly allocated one otherwise.
// Argument validation belongs to the supplied callbacks.
func (p *Pool[T, A]) Create(arg A) T {
	if p.state == StateRenew {
		obj := p.pop()
		p.debug.recordWithdraw(obj)
		p.renewals++
		p.metrics.observeRenew()
		return p.renew(obj, arg)
	}
	p.allocations++
	p.metrics.observeAllocate()
	return p.allocate(arg)
}

// Pull withdraws the most recently destroyed object from the free list without
// renewing it. The second return value is false when the pool is empty.
func (p *Pool[T, A]) Pull() (T, bool) {
	if len(p.freeList) == 0 {
		var zero T
		return zero, false
	}
	obj := p.pop()
	p.debug.recordWithdraw(obj)
	return obj, true
}

// Destroy returns an object to the free list, making it the next candidate for
// reuse, and invokes the dispose callback once the object is back in the pool.
// Destroying the same reference twice corrupts the free list; release builds do
// not guard against it, debug builds panic with the first destroy stack.
func (p *Pool[T, A]) Destroy(obj T) {
	p.debug.ensureDestroyable(obj)
	p.freeList = append(p.freeList, obj)
	if len(p.freeList) == 1 {
		p.state = StateRenew
	}
	p.destroys++
	p.metrics.observeDestroy()
	if p.dispose != nil {
		p.dispose(obj)
	}
	p.debug.recordDestroy(obj)
}

// Drain withdraws and discards every pooled object, releasing the retained
// references. Dispose is not re-invoked; it already ran when each object was
// destroyed. Afterwards the free list is empty and Create allocates.
func (p *Pool[T, A]) Drain() {
	for {
		if _, ok := p.Pull(); !ok {
			break
		}
	}
	p.drains++
	p.metrics.observeDrain()
}

// Clear empties the backing store in one step, skipping Drain's per-object
// withdrawal. The historical contract left dispatch stale after a bulk clear;
// Clear instead resets it to the allocate state so the pool stays consistent
// if reused.
func (p *Pool[T, A]) Clear() {
	clear(p.freeList)
	p.freeList = p.freeList[:0]
	p.state = StateAllocate
	p.debug.reset()
}

// Len reports the number of objects currently held by the free list.
func (p *Pool[T, A]) Len() int {
	return len(p.freeList)
}

// Active reports the dispatch state Create will act on next.
func (p *Pool[T, A]) Active() DispatchState {
	return p.state
}

// Stats returns a snapshot of cumulative pool activity.
func (p *Pool[T, A]) Stats() Stats {
	return Stats{
		Allocations: p.allocations,
		Renewals:    p.renewals,
		Destroys:    p.destroys,
		Drains:      p.drains,
		FreeListLen: len(p.freeList),
	}
}

// pop removes the top of the LIFO free list, zeroing the vacated slot so the
// pool does not retain a hidden reference, and flips dispatch when the list
// becomes empty.
func (p *Pool[T, A]) pop() T {
	n := len(p.freeList) - 1
	obj := p.freeList[n]
	var zero T
	p.freeList[n] = zero
	p.freeList = p.freeList[:n]
	if n == 0 {
		p.state = StateAllocate
	}
	return obj
}
