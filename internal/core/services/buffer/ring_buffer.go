package buffer

// RingBuffer is a fixed-capacity circular buffer of timestamped entries.
// Pushing beyond capacity evicts the oldest entry (last-N-win). The ts
// function extracts each entry's timestamp for windowed retrieval.
type RingBuffer[T any] struct {
	capacity int
	ts       func(T) int64
	items    []T
	head     int // index of the oldest entry
	size     int
}

// NewRingBuffer returns an empty ring of the given capacity. ts extracts an
// entry's timestamp in milliseconds.
func NewRingBuffer[T any](capacity int, ts func(T) int64) *RingBuffer[T] {
	return &RingBuffer[T]{
		capacity: capacity,
		ts:       ts,
		items:    make([]T, capacity),
	}
}

// Push appends item, evicting the oldest entry when at capacity.
func (r *RingBuffer[T]) Push(item T) {
	if r.size < r.capacity {
		r.items[(r.head+r.size)%r.capacity] = item
		r.size++
		return
	}
	r.items[r.head] = item
	r.head = (r.head + 1) % r.capacity
}

// Len returns the number of buffered entries.
func (r *RingBuffer[T]) Len() int { return r.size }

// Items returns a copy of the buffered entries, oldest first.
func (r *RingBuffer[T]) Items() []T {
	out := make([]T, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.items[(r.head+i)%r.capacity])
	}
	return out
}

// Newest returns the most recently pushed entry.
func (r *RingBuffer[T]) Newest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.items[(r.head+r.size-1)%r.capacity], true
}

// Window returns the entries whose timestamp lies in [startMillis,
// stopMillis], oldest first.
func (r *RingBuffer[T]) Window(startMillis, stopMillis int64) []T {
	var out []T
	for i := 0; i < r.size; i++ {
		item := r.items[(r.head+i)%r.capacity]
		if t := r.ts(item); t >= startMillis && t <= stopMillis {
			out = append(out, item)
		}
	}
	return out
}

// Clear discards all entries.
func (r *RingBuffer[T]) Clear() {
	r.head = 0
	r.size = 0
}
