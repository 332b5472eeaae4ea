// util/generic.go
// Copyright(c) 2022-2025 sixdof contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import "iter"

///////////////////////////////////////////////////////////////////////////
// RingBuffer

// RingBuffer represents an array of no more than a given maximum number of
// items.  Once it has filled, old items are discarded to make way for new
// ones. A RingBuffer created with a capacity <= 0 is unbounded.
type RingBuffer[V any] struct {
	entries []V
	max     int
	index   int
}

func NewRingBuffer[V any](capacity int) *RingBuffer[V] {
	return &RingBuffer[V]{max: capacity}
}

// Add adds all of the provided values to the ring buffer.
func (r *RingBuffer[V]) Add(values ...V) {
	for _, v := range values {
		if r.max <= 0 || len(r.entries) < r.max {
			// Append to the entries slice if it hasn't yet hit the limit.
			r.entries = append(r.entries, v)
		} else {
			// Otherwise treat r.entries as a ring buffer where
			// r.index%r.max is the oldest entry and successive newer
			// entries follow.
			r.entries[r.index%r.max] = v
		}
		r.index++
	}
}

// Size returns the total number of items stored in the ring buffer.
func (r *RingBuffer[V]) Size() int {
	return len(r.entries)
}

// Cap returns the maximum number of items the buffer retains; zero
// indicates an unbounded buffer.
func (r *RingBuffer[V]) Cap() int {
	return max(r.max, 0)
}

// Total returns the number of items that have ever been added, including
// ones that have since been discarded.
func (r *RingBuffer[V]) Total() int {
	return r.index
}

// Get returns the specified element of the ring buffer where the index i
// is between 0 and Size()-1 and 0 is the oldest element in the buffer.
func (r *RingBuffer[V]) Get(i int) V {
	return r.entries[(r.index+i)%len(r.entries)]
}

// Last returns the most recently added element and a Boolean indicating
// whether the buffer is non-empty.
func (r *RingBuffer[V]) Last() (V, bool) {
	if len(r.entries) == 0 {
		var v V
		return v, false
	}
	return r.Get(len(r.entries) - 1), true
}

// All returns an iterator over the buffer's elements, oldest first.
func (r *RingBuffer[V]) All() iter.Seq2[int, V] {
	return func(yield func(int, V) bool) {
		for i := range len(r.entries) {
			if !yield(i, r.Get(i)) {
				return
			}
		}
	}
}

// Clone returns the buffer's elements, oldest first, in a new slice.
func (r *RingBuffer[V]) Clone() []V {
	s := make([]V, 0, len(r.entries))
	for _, v := range r.All() {
		s = append(s, v)
	}
	return s
}

// Clear removes all of the elements from the buffer.
func (r *RingBuffer[V]) Clear() {
	clear(r.entries)
	r.entries = r.entries[:0]
	r.index = 0
}

///////////////////////////////////////////////////////////////////////////

// Select returns a if sel is true and b otherwise.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	}
	return b
}
