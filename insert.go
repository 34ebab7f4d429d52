// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"github.com/open-policy-agent/champ/internal/arena"
	"github.com/open-policy-agent/champ/internal/errs"
)

const maxCollisionEntries = 255

// insertOutcome is what a recursive insert step hands back to its caller:
// the freshly allocated subtree root, the wrapping phi delta it introduced,
// whether a brand new key was created (vs. an existing one overwritten),
// and -- for the single-writer facade's "return the old value" contract --
// the value that was displaced, if any.
type insertOutcome[V any] struct {
	newNode          arena.Index
	phiDelta         uint64
	insertedNewKey   bool
	replacedValue    V
	hadReplaced      bool
	newCollisionNode bool // a fresh Collision node was synthesized by this call
}

// doInsert inserts e into the subtree rooted at idx, at the given shift,
// preserving every canonical-form invariant in §3. newContribution is
// contribution(e.Hash, valueHash(e.Value)), precomputed once by the caller;
// valueHash is passed through so a displaced entry's old contribution can
// be recomputed when an overwrite needs a phi delta.
func doInsert[K comparable, V any](s *store[K, V], idx arena.Index, shift uint, e Entry[K, V], newContribution uint64, valueHash func(V) uint64) insertOutcome[V] {
	n := s.getNode(idx)
	if n.kind == kindCollision {
		return insertIntoCollision(s, n, e, newContribution, valueHash)
	}
	return insertIntoInner(s, n, shift, e, newContribution, valueHash)
}

func insertIntoInner[K comparable, V any](s *store[K, V], n *node[K, V], shift uint, e Entry[K, V], newContribution uint64, valueHash func(V) uint64) insertOutcome[V] {
	bit := mask(fragment(e.Hash, shift))

	switch {
	case n.dataMap&bit != 0:
		pos := compactIndex(n.dataMap, bit)
		entries := readEntries(s, n.entriesStart, dataCount(n.dataMap))
		existing := entries[pos]

		if existing.Key == e.Key {
			// Case 1: same key at this slot -- overwrite.
			oldContribution := contribution(existing.Hash, valueHash(existing.Value))
			newEntriesStart := writeEntries(s, replaced(entries, pos, e))
			delta := newContribution - oldContribution
			newIdx := s.nodes.Alloc(node[K, V]{
				kind:         kindInner,
				dataMap:      n.dataMap,
				nodeMap:      n.nodeMap,
				entriesStart: newEntriesStart,
				childStart:   n.childStart,
				subtreePhi:   n.subtreePhi + delta,
			})
			return insertOutcome[V]{newNode: newIdx, phiDelta: delta, replacedValue: existing.Value, hadReplaced: true}
		}

		// Case 2: different key, same fragment -- synthesize a subtree.
		existingContribution := contribution(existing.Hash, valueHash(existing.Value))
		child, createdCollision := subtreeSynthesis(s, existing, e, shift+bitsPerLevel, existingContribution, newContribution)

		newEntriesStart := writeEntries(s, removeAt(entries, pos))
		childPos := compactIndex(n.nodeMap|bit, bit)
		children := readChildren(s, n.childStart, nodeCount(n.nodeMap))
		newChildStart := writeChildren(s, insertAt(children, childPos, child))

		newIdx := s.nodes.Alloc(node[K, V]{
			kind:         kindInner,
			dataMap:      n.dataMap &^ bit,
			nodeMap:      n.nodeMap | bit,
			entriesStart: newEntriesStart,
			childStart:   newChildStart,
			subtreePhi:   n.subtreePhi + newContribution,
		})
		return insertOutcome[V]{newNode: newIdx, phiDelta: newContribution, insertedNewKey: true, newCollisionNode: createdCollision}

	case n.nodeMap&bit != 0:
		pos := compactIndex(n.nodeMap, bit)
		children := readChildren(s, n.childStart, nodeCount(n.nodeMap))
		childIdx := children[pos]

		out := doInsert(s, childIdx, shift+bitsPerLevel, e, newContribution, valueHash)

		newChildStart := writeChildren(s, replaced(children, pos, out.newNode))
		newIdx := s.nodes.Alloc(node[K, V]{
			kind:         kindInner,
			dataMap:      n.dataMap,
			nodeMap:      n.nodeMap,
			entriesStart: n.entriesStart,
			childStart:   newChildStart,
			subtreePhi:   n.subtreePhi + out.phiDelta,
		})
		out.newNode = newIdx
		return out

	default:
		// Case 4: empty slot -- insert directly into the data block.
		pos := compactIndex(n.dataMap|bit, bit)
		entries := readEntries(s, n.entriesStart, dataCount(n.dataMap))
		newEntriesStart := writeEntries(s, insertAt(entries, pos, e))

		newIdx := s.nodes.Alloc(node[K, V]{
			kind:         kindInner,
			dataMap:      n.dataMap | bit,
			nodeMap:      n.nodeMap,
			entriesStart: newEntriesStart,
			childStart:   n.childStart,
			subtreePhi:   n.subtreePhi + newContribution,
		})
		return insertOutcome[V]{newNode: newIdx, phiDelta: newContribution, insertedNewKey: true}
	}
}

func insertIntoCollision[K comparable, V any](s *store[K, V], n *node[K, V], e Entry[K, V], newContribution uint64, valueHash func(V) uint64) insertOutcome[V] {
	entries := readEntries(s, n.entriesStart, int(n.collLen))

	for i, existing := range entries {
		if existing.Key == e.Key {
			oldContribution := contribution(existing.Hash, valueHash(existing.Value))
			newEntriesStart := writeEntries(s, replaced(entries, i, e))
			delta := newContribution - oldContribution
			newIdx := s.nodes.Alloc(node[K, V]{
				kind:         kindCollision,
				hash:         n.hash,
				entriesStart: newEntriesStart,
				collLen:      n.collLen,
				subtreePhi:   n.subtreePhi + delta,
			})
			return insertOutcome[V]{newNode: newIdx, phiDelta: delta, replacedValue: existing.Value, hadReplaced: true}
		}
	}

	if n.collLen >= maxCollisionEntries {
		panic(errs.New(errs.CollisionOverflow, "collision node already holds %d entries", n.collLen))
	}

	newEntriesStart := writeEntries(s, append(entries, e))
	newIdx := s.nodes.Alloc(node[K, V]{
		kind:         kindCollision,
		hash:         n.hash,
		entriesStart: newEntriesStart,
		collLen:      n.collLen + 1,
		subtreePhi:   n.subtreePhi + newContribution,
	})
	return insertOutcome[V]{newNode: newIdx, phiDelta: newContribution, insertedNewKey: true}
}

// subtreeSynthesis builds the smallest subtree that distinguishes two
// entries whose hashes agree on every fragment consumed so far. It does
// not allocate anything for entries or nodes the caller already owns --
// both e1 and e2 end up live in the synthesized subtree.
func subtreeSynthesis[K comparable, V any](s *store[K, V], e1, e2 Entry[K, V], shift uint, contrib1, contrib2 uint64) (arena.Index, bool) {
	if shift > maxShift {
		if e1.Hash != e2.Hash {
			panic(errs.New(errs.Internal, "fragment bookkeeping bug: distinct hashes beyond shift %d", maxShift))
		}
		entriesStart := writeEntries(s, []Entry[K, V]{e1, e2})
		idx := s.nodes.Alloc(node[K, V]{
			kind:         kindCollision,
			hash:         e1.Hash,
			entriesStart: entriesStart,
			collLen:      2,
			subtreePhi:   contrib1 + contrib2,
		})
		return idx, true
	}

	f1 := fragment(e1.Hash, shift)
	f2 := fragment(e2.Hash, shift)

	if f1 == f2 {
		child, createdCollision := subtreeSynthesis(s, e1, e2, shift+bitsPerLevel, contrib1, contrib2)
		childNode := s.getNode(child)
		childStart := writeChildren(s, []arena.Index{child})
		idx := s.nodes.Alloc(node[K, V]{
			kind:       kindInner,
			nodeMap:    mask(f1),
			childStart: childStart,
			subtreePhi: childNode.subtreePhi,
		})
		return idx, createdCollision
	}

	ordered := []Entry[K, V]{e1, e2}
	if f2 < f1 {
		ordered[0], ordered[1] = e2, e1
	}
	entriesStart := writeEntries(s, ordered)
	idx := s.nodes.Alloc(node[K, V]{
		kind:         kindInner,
		dataMap:      mask(f1) | mask(f2),
		entriesStart: entriesStart,
		subtreePhi:   contrib1 + contrib2,
	})
	return idx, false
}
