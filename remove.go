// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import "github.com/open-policy-agent/champ/internal/arena"

// removeOutcome mirrors spec's RemoveOutcome: found reports whether the key
// existed at all; when found, hasNewNode is false iff the subtree rooted
// here is now empty and the caller must prune the slot that pointed to it.
type removeOutcome[V any] struct {
	found        bool
	newNode      arena.Index
	hasNewNode   bool
	phiDelta     uint64
	removedValue V
}

func doRemove[K comparable, V any](s *store[K, V], idx arena.Index, shift uint, hash uint64, key K, valueHash func(V) uint64) removeOutcome[V] {
	n := s.getNode(idx)
	if n.kind == kindCollision {
		return removeFromCollision(s, n, hash, key, valueHash)
	}
	return removeFromInner(s, n, shift, hash, key, valueHash)
}

func removeFromInner[K comparable, V any](s *store[K, V], n *node[K, V], shift uint, hash uint64, key K, valueHash func(V) uint64) removeOutcome[V] {
	bit := mask(fragment(hash, shift))

	switch {
	case n.dataMap&bit != 0:
		pos := compactIndex(n.dataMap, bit)
		entries := readEntries(s, n.entriesStart, dataCount(n.dataMap))
		e := entries[pos]

		if e.Hash != hash || e.Key != key {
			return removeOutcome[V]{found: false}
		}

		removedContribution := contribution(e.Hash, valueHash(e.Value))

		if n.dataMap&^bit == 0 && n.nodeMap == 0 {
			return removeOutcome[V]{found: true, phiDelta: removedContribution, removedValue: e.Value}
		}

		newEntriesStart := writeEntries(s, removeAt(entries, pos))
		newIdx := s.nodes.Alloc(node[K, V]{
			kind:         kindInner,
			dataMap:      n.dataMap &^ bit,
			nodeMap:      n.nodeMap,
			entriesStart: newEntriesStart,
			childStart:   n.childStart,
			subtreePhi:   n.subtreePhi - removedContribution,
		})
		return removeOutcome[V]{found: true, newNode: newIdx, hasNewNode: true, phiDelta: removedContribution, removedValue: e.Value}

	case n.nodeMap&bit != 0:
		pos := compactIndex(n.nodeMap, bit)
		children := readChildren(s, n.childStart, nodeCount(n.nodeMap))
		childOut := doRemove(s, children[pos], shift+bitsPerLevel, hash, key, valueHash)
		if !childOut.found {
			return removeOutcome[V]{found: false}
		}

		if !childOut.hasNewNode {
			newChildStart := writeChildren(s, removeAt(children, pos))
			newNodeMap := n.nodeMap &^ bit

			if n.dataMap == 0 && newNodeMap == 0 {
				return removeOutcome[V]{found: true, phiDelta: childOut.phiDelta, removedValue: childOut.removedValue}
			}

			newIdx := s.nodes.Alloc(node[K, V]{
				kind:         kindInner,
				dataMap:      n.dataMap,
				nodeMap:      newNodeMap,
				entriesStart: n.entriesStart,
				childStart:   newChildStart,
				subtreePhi:   n.subtreePhi - childOut.phiDelta,
			})
			return removeOutcome[V]{found: true, newNode: newIdx, hasNewNode: true, phiDelta: childOut.phiDelta, removedValue: childOut.removedValue}
		}

		childNode := s.getNode(childOut.newNode)
		if childNode.kind == kindInner && dataCount(childNode.dataMap) == 1 && childNode.nodeMap == 0 {
			// Canonical inlining: the child degenerated to a single entry
			// with no children of its own -- it must not exist as a
			// non-root node, so its entry is re-absorbed here.
			single := *s.getEntry(childNode.entriesStart)

			newChildStart := writeChildren(s, removeAt(children, pos))
			dataEntries := readEntries(s, n.entriesStart, dataCount(n.dataMap))
			newPos := compactIndex(n.dataMap|bit, bit)
			newEntriesStart := writeEntries(s, insertAt(dataEntries, newPos, single))

			newIdx := s.nodes.Alloc(node[K, V]{
				kind:         kindInner,
				dataMap:      n.dataMap | bit,
				nodeMap:      n.nodeMap &^ bit,
				entriesStart: newEntriesStart,
				childStart:   newChildStart,
				subtreePhi:   n.subtreePhi - childOut.phiDelta,
			})
			return removeOutcome[V]{found: true, newNode: newIdx, hasNewNode: true, phiDelta: childOut.phiDelta, removedValue: childOut.removedValue}
		}

		newChildStart := writeChildren(s, replaced(children, pos, childOut.newNode))
		newIdx := s.nodes.Alloc(node[K, V]{
			kind:         kindInner,
			dataMap:      n.dataMap,
			nodeMap:      n.nodeMap,
			entriesStart: n.entriesStart,
			childStart:   newChildStart,
			subtreePhi:   n.subtreePhi - childOut.phiDelta,
		})
		return removeOutcome[V]{found: true, newNode: newIdx, hasNewNode: true, phiDelta: childOut.phiDelta, removedValue: childOut.removedValue}

	default:
		return removeOutcome[V]{found: false}
	}
}

func removeFromCollision[K comparable, V any](s *store[K, V], n *node[K, V], hash uint64, key K, valueHash func(V) uint64) removeOutcome[V] {
	if hash != n.hash {
		return removeOutcome[V]{found: false}
	}

	entries := readEntries(s, n.entriesStart, int(n.collLen))
	pos := -1
	for i, e := range entries {
		if e.Key == key {
			pos = i
			break
		}
	}
	if pos == -1 {
		return removeOutcome[V]{found: false}
	}

	removed := entries[pos]
	removedContribution := contribution(removed.Hash, valueHash(removed.Value))

	if n.collLen == 2 {
		var remaining Entry[K, V]
		if pos == 0 {
			remaining = entries[1]
		} else {
			remaining = entries[0]
		}
		remainingContribution := contribution(remaining.Hash, valueHash(remaining.Value))
		entriesStart := writeEntries(s, []Entry[K, V]{remaining})

		newIdx := s.nodes.Alloc(node[K, V]{
			kind:         kindInner,
			dataMap:      mask(fragment(remaining.Hash, 0)),
			entriesStart: entriesStart,
			subtreePhi:   remainingContribution,
		})
		return removeOutcome[V]{found: true, newNode: newIdx, hasNewNode: true, phiDelta: removedContribution, removedValue: removed.Value}
	}

	newEntriesStart := writeEntries(s, removeAt(entries, pos))
	newIdx := s.nodes.Alloc(node[K, V]{
		kind:         kindCollision,
		hash:         n.hash,
		entriesStart: newEntriesStart,
		collLen:      n.collLen - 1,
		subtreePhi:   n.subtreePhi - removedContribution,
	})
	return removeOutcome[V]{found: true, newNode: newIdx, hasNewNode: true, phiDelta: removedContribution, removedValue: removed.Value}
}
