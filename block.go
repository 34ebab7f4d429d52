// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"math/bits"

	"github.com/open-policy-agent/champ/internal/arena"
)

func dataCount(n uint32) int { return bits.OnesCount32(n) }
func nodeCount(n uint32) int { return bits.OnesCount32(n) }

// readEntries materializes a contiguous entries block into a slice so it
// can be edited; CHAMP never mutates an existing block in place, it always
// rebuilds one from scratch, which is what the write side of this pair
// (writeEntries) does.
func readEntries[K comparable, V any](s *store[K, V], start arena.Index, count int) []Entry[K, V] {
	out := make([]Entry[K, V], count)
	for i := range out {
		out[i] = *s.getEntry(arena.Index(uint32(start) + uint32(i)))
	}
	return out
}

func readChildren[K comparable, V any](s *store[K, V], start arena.Index, count int) []arena.Index {
	out := make([]arena.Index, count)
	for i := range out {
		out[i] = s.getChild(arena.Index(uint32(start) + uint32(i)))
	}
	return out
}

func writeEntries[K comparable, V any](s *store[K, V], entries []Entry[K, V]) arena.Index {
	return s.entries.AllocExtend(entries)
}

func writeChildren[K comparable, V any](s *store[K, V], children []arena.Index) arena.Index {
	return s.children.AllocExtend(children)
}

// insertAt returns a new slice with v inserted at pos, leaving src untouched.
func insertAt[T any](src []T, pos int, v T) []T {
	out := make([]T, 0, len(src)+1)
	out = append(out, src[:pos]...)
	out = append(out, v)
	out = append(out, src[pos:]...)
	return out
}

// removeAt returns a new slice with the element at pos removed.
func removeAt[T any](src []T, pos int) []T {
	out := make([]T, 0, len(src)-1)
	out = append(out, src[:pos]...)
	out = append(out, src[pos+1:]...)
	return out
}

// replaced returns a copy of src with position pos set to v.
func replaced[T any](src []T, pos int, v T) []T {
	out := make([]T, len(src))
	copy(out, src)
	out[pos] = v
	return out
}
