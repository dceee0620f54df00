// Package histogram provides the bounded sample histograms backing the
// aggregation store. Two shapes exist: IntHistogram buckets by raw value over
// a small closed domain, BoundaryHistogram buckets by explicit ascending
// cut-points into half-open intervals.
package histogram

import (
	"sort"

	"github.com/netgauge/wifitel/internal/core/domain"
)

// OutOfDomainPolicy controls what happens to samples outside [min, max].
type OutOfDomainPolicy int

const (
	// Drop discards out-of-domain samples silently.
	Drop OutOfDomainPolicy = iota
	// Clamp folds out-of-domain samples onto the nearest bound.
	Clamp
)

// IntHistogram counts samples keyed by their raw integer value. The domain is
// the closed interval [min, max]; the policy decides whether outside samples
// are dropped or clamped. maxBuckets caps the number of distinct keys: once
// at cap, samples that would open a new key are absorbed by the highest
// existing key.
type IntHistogram struct {
	min, max   int
	policy     OutOfDomainPolicy
	maxBuckets int
	counts     map[int]int64
}

// NewIntHistogram returns an empty histogram over [min, max]. maxBuckets <= 0
// means the cap equals the domain size.
func NewIntHistogram(min, max int, policy OutOfDomainPolicy, maxBuckets int) *IntHistogram {
	if maxBuckets <= 0 {
		maxBuckets = max - min + 1
	}
	return &IntHistogram{
		min:        min,
		max:        max,
		policy:     policy,
		maxBuckets: maxBuckets,
		counts:     make(map[int]int64),
	}
}

// Record adds one occurrence of v.
func (h *IntHistogram) Record(v int) { h.RecordN(v, 1) }

// RecordN adds weight occurrences of v. Out-of-domain values follow the
// configured policy; a non-positive weight is a no-op.
func (h *IntHistogram) RecordN(v int, weight int64) {
	if weight <= 0 {
		return
	}
	if v < h.min || v > h.max {
		if h.policy == Drop {
			return
		}
		if v < h.min {
			v = h.min
		} else {
			v = h.max
		}
	}
	if _, seen := h.counts[v]; !seen && len(h.counts) >= h.maxBuckets {
		v = h.highestKey()
	}
	h.counts[v] += weight
}

func (h *IntHistogram) highestKey() int {
	top := h.min
	first := true
	for k := range h.counts {
		if first || k > top {
			top = k
			first = false
		}
	}
	return top
}

// Count returns the count recorded for value v; absent keys report zero.
func (h *IntHistogram) Count(v int) int64 { return h.counts[v] }

// Buckets returns the number of distinct keys recorded so far.
func (h *IntHistogram) Buckets() int { return len(h.counts) }

// Entries exports the sparse (value, count) pairs sorted by ascending value.
func (h *IntHistogram) Entries() []domain.ValueCount {
	out := make([]domain.ValueCount, 0, len(h.counts))
	for v, c := range h.counts {
		out = append(out, domain.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// Clear resets all buckets.
func (h *IntHistogram) Clear() { h.counts = make(map[int]int64) }

// BoundaryHistogram counts samples in the half-open intervals defined by
// ascending cut-points: [cuts[0], cuts[1]), ..., [cuts[n-1], +inf). A value
// equal to a cut-point falls into the bucket that starts there. Values below
// cuts[0] are out of domain and dropped.
type BoundaryHistogram struct {
	cuts   []int64
	counts []int64
}

// NewBoundaryHistogram returns an empty histogram over the given ascending
// cut-points. At least one cut-point is required; the top bucket is
// open-ended.
func NewBoundaryHistogram(cuts []int64) *BoundaryHistogram {
	own := make([]int64, len(cuts))
	copy(own, cuts)
	return &BoundaryHistogram{
		cuts:   own,
		counts: make([]int64, len(own)),
	}
}

// Record adds one occurrence of v, dropping values below the first cut-point.
func (h *BoundaryHistogram) Record(v int64) {
	if len(h.cuts) == 0 || v < h.cuts[0] {
		return
	}
	// First bucket whose start is <= v and whose successor starts above it.
	idx := sort.Search(len(h.cuts), func(i int) bool { return h.cuts[i] > v }) - 1
	h.counts[idx]++
}

// Entries exports the sparse occupied buckets in ascending key order. The top
// bucket is marked Open with EndExclusive zero.
func (h *BoundaryHistogram) Entries() []domain.RangeCount {
	var out []domain.RangeCount
	for i, c := range h.counts {
		if c == 0 {
			continue
		}
		rc := domain.RangeCount{StartInclusive: h.cuts[i], Count: c}
		if i == len(h.cuts)-1 {
			rc.Open = true
		} else {
			rc.EndExclusive = h.cuts[i+1]
		}
		out = append(out, rc)
	}
	return out
}

// Clear resets all buckets.
func (h *BoundaryHistogram) Clear() {
	for i := range h.counts {
		h.counts[i] = 0
	}
}

// KeyedCounter is an enum-keyed count map. Unseen keys are never
// materialized; export order is ascending key.
type KeyedCounter struct {
	counts map[int]int64
}

// NewKeyedCounter returns an empty counter map.
func NewKeyedCounter() *KeyedCounter {
	return &KeyedCounter{counts: make(map[int]int64)}
}

// Increment adds one to the count for key.
func (k *KeyedCounter) Increment(key int) { k.counts[key]++ }

// Add adds delta to the count for key.
func (k *KeyedCounter) Add(key int, delta int64) { k.counts[key] += delta }

// Count returns the count for key; absent keys report zero.
func (k *KeyedCounter) Count(key int) int64 { return k.counts[key] }

// Entries exports the sparse (key, count) pairs sorted by ascending key.
func (k *KeyedCounter) Entries() []domain.KeyedCount {
	out := make([]domain.KeyedCount, 0, len(k.counts))
	for key, c := range k.counts {
		out = append(out, domain.KeyedCount{Key: key, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Clear resets all keys.
func (k *KeyedCounter) Clear() { k.counts = make(map[int]int64) }
