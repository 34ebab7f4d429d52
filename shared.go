// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"fmt"
	"iter"

	"github.com/open-policy-agent/champ/internal/arena"
)

// InsertOutcome reports what SharedMap.Insert did, since the shareable
// variant does not return the displaced value (a reader concurrently
// iterating must never observe a value slot that is mid-mutation).
type InsertOutcome int

const (
	// Inserted means the key was new.
	Inserted InsertOutcome = iota
	// Updated means an existing key's value was overwritten.
	Updated
)

func (o InsertOutcome) String() string {
	if o == Inserted {
		return "Inserted"
	}
	return "Updated"
}

// SharedMap is a read-shareable persistent CHAMP map: once a goroutine
// stops mutating it, any number of other goroutines may call Get,
// ContainsKey, Iter, All, Keys, and Values concurrently. This holds because
// the backing arenas are chunk-stable (see internal/arena) -- a reference
// obtained from a read is never invalidated by a later Alloc, only by a
// Rollback that truncates past it. Concurrent mutation is not supported;
// the caller must serialize all Insert/Remove/Rollback calls against every
// other access.
type SharedMap[K comparable, V any] struct {
	store *store[K, V]
	root  arena.Index
	size  int
	phi   uint64
	cfg   *config[K, V]
}

// NewShared returns an empty SharedMap.
func NewShared[K comparable, V any](opts ...Option[K, V]) *SharedMap[K, V] {
	cfg := newConfig[K, V]()
	for _, opt := range opts {
		opt(cfg)
	}
	return &SharedMap[K, V]{store: newStore[K, V](), cfg: cfg}
}

// Get returns the value stored for k, if any.
func (m *SharedMap[K, V]) Get(k K) (V, bool) {
	return lookup(m.store, m.root, m.cfg.keyHasher.Hash(k), k)
}

// ContainsKey reports whether k is present.
func (m *SharedMap[K, V]) ContainsKey(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Len returns the number of distinct keys stored.
func (m *SharedMap[K, V]) Len() int { return m.size }

// IsEmpty reports whether the map holds no entries.
func (m *SharedMap[K, V]) IsEmpty() bool { return m.size == 0 }

// Phi returns the map's current additive structural digest.
func (m *SharedMap[K, V]) Phi() uint64 { return m.phi }

// ArenaLen reports the three backing arenas' current lengths.
func (m *SharedMap[K, V]) ArenaLen() (nodes, entries, children int) { return m.store.arenaLen() }

// Insert adds or overwrites k -> v, reporting whether the key was new.
func (m *SharedMap[K, V]) Insert(k K, v V) InsertOutcome {
	newRoot, out := insertEntry(m.store, m.root, m.cfg, k, v)
	m.root = newRoot
	m.phi += out.phiDelta
	if out.newCollisionNode {
		m.cfg.metrics.incCollisionNode()
	}
	m.cfg.metrics.observeArena(m.store.arenaLen())

	if out.insertedNewKey {
		m.size++
		return Inserted
	}
	return Updated
}

// Remove deletes k, reporting whether it was present.
func (m *SharedMap[K, V]) Remove(k K) bool {
	newRoot, out := removeEntry(m.store, m.root, m.cfg, k)
	if !out.found {
		return false
	}
	m.root = newRoot
	m.phi -= out.phiDelta
	m.size--
	m.cfg.metrics.observeArena(m.store.arenaLen())
	return true
}

// Extend inserts every pair in pairs, in iteration order.
func (m *SharedMap[K, V]) Extend(pairs iter.Seq2[K, V]) {
	for k, v := range pairs {
		m.Insert(k, v)
	}
}

// Iter returns a one-shot Iterator over the map's entries. Safe to call
// from multiple goroutines concurrently, and concurrently with other reads,
// as long as nothing mutates the map for the iterators' lifetime.
func (m *SharedMap[K, V]) Iter() *Iterator[K, V] { return newIterator(m.store, m.root) }

// All adapts the map's traversal to a Go 1.23 range-over-func sequence.
func (m *SharedMap[K, V]) All() iter.Seq2[K, V] { return iterAll(m.store, m.root) }

// Keys adapts the map's traversal to a Go 1.23 range-over-func key sequence.
func (m *SharedMap[K, V]) Keys() iter.Seq[K] { return iterKeys(m.store, m.root) }

// Values adapts the map's traversal to a Go 1.23 range-over-func value sequence.
func (m *SharedMap[K, V]) Values() iter.Seq[V] { return iterValues(m.store, m.root) }

// Checkpoint captures an O(1) snapshot of the map's current state.
func (m *SharedMap[K, V]) Checkpoint() Checkpoint {
	return takeCheckpoint(m.store, m.cfg, m.root, m.size, m.phi)
}

// Rollback restores the map to a previously taken Checkpoint, in O(1).
// Like Insert/Remove, this is a mutation and must not race with reads.
func (m *SharedMap[K, V]) Rollback(cp Checkpoint) {
	root, size, phi := applyRollback(m.store, m.cfg, cp)
	m.root, m.size, m.phi = root, size, phi
}

// Clone returns a plain Go map holding a snapshot of every entry.
func (m *SharedMap[K, V]) Clone() map[K]V {
	out := make(map[K]V, m.size)
	for k, v := range m.All() {
		out[k] = v
	}
	return out
}

// Equal reports whether m and other were built from the same set of pairs,
// via O(1) length and phi comparison. False positives occur with
// probability ~2^-64; see spec §1.
func (m *SharedMap[K, V]) Equal(other *SharedMap[K, V]) bool {
	return m.size == other.size && m.phi == other.phi
}

// String renders the map's length and phi, never its contents.
func (m *SharedMap[K, V]) String() string {
	return fmt.Sprintf("champ.SharedMap{len=%d, phi=%#016x}", m.size, m.phi)
}

// GoString renders the same summary as String, for %#v formatting.
func (m *SharedMap[K, V]) GoString() string { return m.String() }
