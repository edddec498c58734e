package gfx

import "sync/atomic"

// RefCount counts owners of a shared resource and runs a destructor on the
// last Release. Embed it and call Init once from the constructor.
type RefCount struct {
	refs    atomic.Int32
	destroy func()
}

// Init sets one owner and the function run when the count reaches zero.
func (r *RefCount) Init(destroy func()) {
	r.refs.Store(1)
	r.destroy = destroy
}

// Retain adds an owner.
func (r *RefCount) Retain() {
	r.refs.Add(1)
}

// Release drops an owner. The destructor runs exactly once.
// Releasing an already destroyed object does nothing.
func (r *RefCount) Release() {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return
		}
		if r.refs.CompareAndSwap(n, n-1) {
			if n == 1 && r.destroy != nil {
				r.destroy()
			}
			return
		}
	}
}

// Refs returns the current number of owners.
func (r *RefCount) Refs() int {
	return int(r.refs.Load())
}

// Shared wraps a raw GPU object so several owners can hold it.
type Shared[T Releaser] struct {
	RefCount
	value T
}

// Share wraps v with a single owner. The last Release releases v.
func Share[T Releaser](v T) *Shared[T] {
	s := &Shared[T]{value: v}
	s.Init(func() { s.value.Release() })
	return s
}

// Get returns the wrapped object.
func (s *Shared[T]) Get() T {
	return s.value
}
