// Package buffer provides the two capacity-bounded containers used by the
// aggregation store. They deliberately differ on overflow: BoundedLog keeps
// the first N entries and rejects the rest, RingBuffer keeps the last N and
// evicts the oldest. Neither is safe for concurrent use; the owning store
// serializes access.
package buffer

// BoundedLog is an append-only log capped at max entries. Appends beyond the
// cap are dropped silently (first-N-win).
type BoundedLog[T any] struct {
	max   int
	items []T
}

// NewBoundedLog returns an empty log capped at max entries.
func NewBoundedLog[T any](max int) *BoundedLog[T] {
	return &BoundedLog[T]{max: max}
}

// Append adds item unless the log is full. It reports whether the item was
// retained.
func (l *BoundedLog[T]) Append(item T) bool {
	if len(l.items) >= l.max {
		return false
	}
	l.items = append(l.items, item)
	return true
}

// Len returns the number of retained entries.
func (l *BoundedLog[T]) Len() int { return len(l.items) }

// Full reports whether further appends will be dropped.
func (l *BoundedLog[T]) Full() bool { return len(l.items) >= l.max }

// Items returns a copy of the retained entries in append order.
func (l *BoundedLog[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Clear discards all entries.
func (l *BoundedLog[T]) Clear() { l.items = l.items[:0] }
