// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package arena implements a monotonic, chunk-stable bump allocator with
// O(1) checkpoint and rollback.
//
// It is the storage primitive the champ package builds its CHAMP trie on
// top of: nodes, entries, and child-index blocks each live in their own
// Arena[T], and a mutation path allocates new records for every level it
// touches (copy-on-write) rather than mutating existing ones in place.
//
// Unlike a conventional arena, there is no per-item free: reclamation
// happens wholesale, by rolling back to an earlier checkpoint. This trades
// the ability to reclaim an arbitrary dead node for O(1) snapshot/restore,
// which is the property the trie's checkpoint/rollback facade needs.
//
// Chunks are allocated geometrically and never moved once allocated, so a
// pointer returned by Get remains valid across any number of subsequent
// Alloc calls -- only a Rollback that truncates below an item's offset
// invalidates it. This is what lets the read-shareable map variant hand out
// references that outlive further mutation of the structure (see champ.SharedMap).
package arena

// Index is an opaque offset into an Arena. The zero value is reserved: it
// names "no block" and is what a bitmap-compressed Inner node stores in a
// data_start/children_start field whose corresponding bitmap is empty. The
// arena must accept it as an ordinary (never dereferenced) value; callers
// guard dereference on the bitmap, not on Index itself.
type Index uint32

// HighWater is a checkpoint: the arena's length at the moment it was taken.
type HighWater int

const firstChunkSize = 64

// Arena is a homogeneous, append-only sequence of T, stored in
// geometrically growing chunks so that existing chunks are never
// reallocated.
type Arena[T any] struct {
	chunks [][]T // chunks[i] has capacity firstChunkSize<<i
	length int   // logical length, <= sum of chunk capacities
}

// New returns an Arena with its sentinel slot (Index 0) already allocated.
func New[T any]() *Arena[T] {
	a := &Arena[T]{}
	a.chunks = append(a.chunks, make([]T, 1, firstChunkSize))
	a.length = 1
	return a
}

// locate maps a flat index to (chunk, offset within chunk). Chunk sizes are
// firstChunkSize * 2^0, *2^1, ...
func locate(idx int) (chunk, offset int) {
	size := firstChunkSize
	base := 0
	for idx >= base+size {
		base += size
		size *= 2
		chunk++
	}
	return chunk, idx - base
}

func (a *Arena[T]) ensureChunk(chunk int) {
	for len(a.chunks) <= chunk {
		size := firstChunkSize << len(a.chunks)
		a.chunks = append(a.chunks, make([]T, 0, size))
	}
}

// Alloc appends one item and returns its Index.
func (a *Arena[T]) Alloc(item T) Index {
	idx := a.length
	chunk, offset := locate(idx)
	a.ensureChunk(chunk)
	c := &a.chunks[chunk]
	if offset == len(*c) {
		*c = append(*c, item)
	} else {
		(*c)[offset] = item
	}
	a.length++
	return Index(idx)
}

// AllocExtend appends a finite, contiguous batch and returns the first
// item's Index. If items is empty it returns the sentinel Index(0), the
// documented "no block" signal. Index 0 is reserved at New and is never
// the result of a real allocation, so the sentinel is unambiguous.
func (a *Arena[T]) AllocExtend(items []T) Index {
	if len(items) == 0 {
		return Index(0)
	}
	first := Index(a.length)
	for _, it := range items {
		a.Alloc(it)
	}
	return first
}

// Get returns a pointer to the item at idx, valid until the next Rollback
// that truncates below idx.
func (a *Arena[T]) Get(idx Index) *T {
	chunk, offset := locate(int(idx))
	return &a.chunks[chunk][offset]
}

// Checkpoint returns the current length as a high-water mark.
func (a *Arena[T]) Checkpoint() HighWater {
	return HighWater(a.length)
}

// Rollback truncates the arena back to a previously taken checkpoint.
// Items beyond hw are logically destroyed; their storage is reused by the
// next Alloc that reaches the same offset. Rolling back to a HighWater
// greater than the current length, or one taken from a different Arena,
// is undefined -- the champ package guards this at the Store/Checkpoint
// level via a store identity check.
func (a *Arena[T]) Rollback(hw HighWater) {
	target := int(hw)
	if target > a.length {
		return
	}
	a.length = target
	chunk, offset := locate(target)
	if chunk >= len(a.chunks) {
		// target sits exactly at the first offset of a chunk that was
		// never allocated (e.g. a checkpoint taken precisely at a
		// capacity boundary) -- there is nothing past the existing
		// chunks to truncate.
		return
	}
	a.chunks = a.chunks[:chunk+1]
	a.chunks[chunk] = a.chunks[chunk][:offset]
}

// Len returns the current logical length, including COW-dead copies that
// predate the most recent rollback boundary.
func (a *Arena[T]) Len() int {
	return a.length
}
