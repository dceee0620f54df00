package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundedLogFirstNWin(t *testing.T) {
	l := NewBoundedLog[int](5)

	for i := 0; i < 8; i++ {
		kept := l.Append(i)
		assert.Equal(t, i < 5, kept)
	}

	assert.Equal(t, 5, l.Len())
	assert.True(t, l.Full())
	// The first 5 appended survive, unchanged by the later appends.
	assert.Equal(t, []int{0, 1, 2, 3, 4}, l.Items())

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.True(t, l.Append(42))
}

func TestBoundedLogItemsIsACopy(t *testing.T) {
	l := NewBoundedLog[int](3)
	l.Append(1)
	items := l.Items()
	items[0] = 99
	assert.Equal(t, []int{1}, l.Items())
}

func TestRingBufferLastNWin(t *testing.T) {
	r := NewRingBuffer[int](4, func(v int) int64 { return int64(v) })

	for i := 0; i < 10; i++ {
		r.Push(i)
	}

	assert.Equal(t, 4, r.Len())
	// Exactly the last 4 pushed, in push order.
	assert.Equal(t, []int{6, 7, 8, 9}, r.Items())

	newest, ok := r.Newest()
	require.True(t, ok)
	assert.Equal(t, 9, newest)
}

func TestRingBufferWindow(t *testing.T) {
	type sample struct{ ts int64 }
	r := NewRingBuffer[sample](100, func(s sample) int64 { return s.ts })

	// Samples every 3000ms starting at 20000ms.
	for i := 0; i < 80; i++ {
		r.Push(sample{ts: 20000 + int64(i)*3000})
	}

	got := r.Window(30000, 150000)
	require.Len(t, got, 40)
	assert.Equal(t, int64(32000), got[0].ts)
	assert.Equal(t, int64(149000), got[len(got)-1].ts)

	// Inclusive on both ends when a sample lands exactly on the edge.
	edge := r.Window(20000, 23000)
	require.Len(t, edge, 2)
	assert.Equal(t, int64(20000), edge[0].ts)
	assert.Equal(t, int64(23000), edge[1].ts)

	assert.Empty(t, r.Window(0, 10000))
}

func TestRingBufferEmpty(t *testing.T) {
	r := NewRingBuffer[int](3, func(v int) int64 { return int64(v) })
	_, ok := r.Newest()
	assert.False(t, ok)
	assert.Empty(t, r.Items())
	assert.Equal(t, 0, r.Len())
}

func TestRingBufferClear(t *testing.T) {
	r := NewRingBuffer[int](3, func(v int) int64 { return int64(v) })
	r.Push(1)
	r.Push(2)
	r.Clear()
	assert.Equal(t, 0, r.Len())
	r.Push(7)
	assert.Equal(t, []int{7}, r.Items())
}
