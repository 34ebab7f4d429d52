// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import "github.com/open-policy-agent/champ/internal/arena"

// lookup descends from root looking for key/hash, returning the stored
// value and whether it was found. A zero root (arena.Index(0)) means an
// empty trie.
func lookup[K comparable, V any](s *store[K, V], root arena.Index, hash uint64, key K) (V, bool) {
	var zero V
	if root == 0 {
		return zero, false
	}

	idx := root
	shift := uint(0)

	for {
		n := s.getNode(idx)

		if n.kind == kindCollision {
			if hash != n.hash {
				return zero, false
			}
			start := n.entriesStart
			for i := uint8(0); i < n.collLen; i++ {
				e := s.getEntry(arena.Index(uint32(start) + uint32(i)))
				if e.Key == key {
					return e.Value, true
				}
			}
			return zero, false
		}

		bit := mask(fragment(hash, shift))

		if n.dataMap&bit != 0 {
			pos := compactIndex(n.dataMap, bit)
			e := s.getEntry(arena.Index(uint32(n.entriesStart) + uint32(pos)))
			if e.Hash == hash && e.Key == key {
				return e.Value, true
			}
			return zero, false
		}

		if n.nodeMap&bit != 0 {
			pos := compactIndex(n.nodeMap, bit)
			idx = s.getChild(arena.Index(uint32(n.childStart) + uint32(pos)))
			shift += bitsPerLevel
			continue
		}

		return zero, false
	}
}
