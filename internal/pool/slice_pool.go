package pool

import "sync"

// SlicePool pools scratch slices of T.
//
// The OASIS writer uses it for transient delta lists derived from absolute
// coordinates that never escape the call.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates an empty SlicePool.
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{
			New: func() any { return &[]T{} },
		},
	}
}

// Get retrieves a slice of length size from the pool.
//
// The caller must call the returned cleanup function (typically with defer)
// once the slice is no longer referenced.
//
// Example:
//
//	deltas, cleanup := deltaPool.Get(count)
//	defer cleanup()
func (p *SlicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]T, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { p.pool.Put(ptr) }
}
