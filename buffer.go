package gocsp

// ring is a fixed-capacity FIFO buffer. Not safe for concurrent use; the
// owning channel serializes access under its lock.
type ring[T any] struct {
	items []T
	head  int
	count int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{items: make([]T, capacity)}
}

func (r *ring[T]) len() int {
	return r.count
}

func (r *ring[T]) full() bool {
	return r.count == len(r.items)
}

func (r *ring[T]) push(v T) {
	if r.full() {
		panic("gocsp: buffer overflow")
	}
	r.items[(r.head+r.count)%len(r.items)] = v
	r.count++
}

func (r *ring[T]) pop() T {
	if r.count == 0 {
		panic("gocsp: buffer underflow")
	}
	v := r.items[r.head]
	var zero T
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.count--
	return v
}
