package histogram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntHistogramRecordsInDomain(t *testing.T) {
	h := NewIntHistogram(-127, 0, Drop, 128)

	// 20 RSSI values -127..-108, value i recorded i+1 times.
	for i := 0; i < 20; i++ {
		h.RecordN(-127+i, int64(i+1))
	}

	entries := h.Entries()
	require.Len(t, entries, 20)
	for i, e := range entries {
		assert.Equal(t, -127+i, e.Value)
		assert.Equal(t, int64(i+1), e.Count)
	}
	assert.LessOrEqual(t, h.Buckets(), 128)
}

func TestIntHistogramDropsOutOfDomain(t *testing.T) {
	h := NewIntHistogram(0, 60, Drop, 0)
	h.Record(-1)
	h.Record(61)
	h.Record(1000)
	assert.Equal(t, 0, h.Buckets())

	h.Record(60)
	h.Record(0)
	assert.Equal(t, int64(1), h.Count(60))
	assert.Equal(t, int64(1), h.Count(0))
	assert.Equal(t, 2, h.Buckets())
}

func TestIntHistogramClampsToBounds(t *testing.T) {
	h := NewIntHistogram(1, 64, Clamp, 0)

	// Alert reasons {MIN-1, MAX+1, 1, 1, 1, 2}: the below-range sample clamps
	// onto reason 1, the above-range sample onto reason 64.
	for _, reason := range []int{0, 65, 1, 1, 1, 2} {
		h.Record(reason)
	}

	assert.Equal(t, 3, h.Buckets())
	assert.Equal(t, int64(4), h.Count(1))
	assert.Equal(t, int64(1), h.Count(2))
	assert.Equal(t, int64(1), h.Count(64))
}

func TestIntHistogramBucketCap(t *testing.T) {
	h := NewIntHistogram(0, 1000, Drop, 3)
	h.Record(10)
	h.Record(20)
	h.Record(30)
	// At cap: new keys are absorbed by the highest existing one.
	h.Record(500)
	h.Record(999)

	assert.Equal(t, 3, h.Buckets())
	assert.Equal(t, int64(3), h.Count(30))
	assert.Equal(t, int64(0), h.Count(500))
	// Existing keys still record normally at cap.
	h.Record(10)
	assert.Equal(t, int64(2), h.Count(10))
}

func TestIntHistogramZeroWeightIsNoOp(t *testing.T) {
	h := NewIntHistogram(0, 10, Drop, 0)
	h.RecordN(5, 0)
	h.RecordN(5, -3)
	assert.Equal(t, 0, h.Buckets())
}

func TestBoundaryHistogramHalfOpenBuckets(t *testing.T) {
	h := NewBoundaryHistogram([]int64{0, 1000, 5000, 60000})

	h.Record(0)     // [0, 1000)
	h.Record(999)   // [0, 1000)
	h.Record(1000)  // boundary value starts the next bucket
	h.Record(4999)  // [1000, 5000)
	h.Record(60000) // open-ended top bucket
	h.Record(1 << 40)
	h.Record(-5) // below domain, dropped

	entries := h.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, int64(0), entries[0].StartInclusive)
	assert.Equal(t, int64(1000), entries[0].EndExclusive)
	assert.Equal(t, int64(2), entries[0].Count)

	assert.Equal(t, int64(1000), entries[1].StartInclusive)
	assert.Equal(t, int64(2), entries[1].Count)

	assert.Equal(t, int64(60000), entries[2].StartInclusive)
	assert.True(t, entries[2].Open)
	assert.Equal(t, int64(2), entries[2].Count)
}

func TestBoundaryHistogramSparseExport(t *testing.T) {
	h := NewBoundaryHistogram([]int64{0, 10, 20})
	h.Record(15)
	entries := h.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(10), entries[0].StartInclusive)
}

func TestKeyedCounter(t *testing.T) {
	k := NewKeyedCounter()
	k.Increment(7)
	k.Increment(3)
	k.Add(7, 2)

	entries := k.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Key)
	assert.Equal(t, int64(1), entries[0].Count)
	assert.Equal(t, 7, entries[1].Key)
	assert.Equal(t, int64(3), entries[1].Count)

	// Unseen keys are absent, not zero-materialized.
	assert.Equal(t, int64(0), k.Count(99))
	assert.Len(t, k.Entries(), 2)

	k.Clear()
	assert.Empty(t, k.Entries())
}
