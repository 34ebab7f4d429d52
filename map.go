// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"fmt"
	"iter"

	"github.com/open-policy-agent/champ/internal/arena"
	"github.com/open-policy-agent/champ/internal/errs"
)

// config holds every construction-time option for a Map or SharedMap.
type config[K comparable, V any] struct {
	keyHasher   Hasher[K]
	valueHasher Hasher[V]
	logger      Logger
	metrics     *Metrics
}

func newConfig[K comparable, V any]() *config[K, V] {
	return &config[K, V]{
		keyHasher:   defaultHasher[K](),
		valueHasher: defaultHasher[V](),
		logger:      noopLogger{},
	}
}

// Option configures a Map or SharedMap at construction time.
type Option[K comparable, V any] func(*config[K, V])

// WithKeyHasher overrides the default key hasher.
func WithKeyHasher[K comparable, V any](h Hasher[K]) Option[K, V] {
	return func(c *config[K, V]) { c.keyHasher = h }
}

// WithValueHasher overrides the default value hasher.
func WithValueHasher[K comparable, V any](h Hasher[V]) Option[K, V] {
	return func(c *config[K, V]) { c.valueHasher = h }
}

// WithLogger injects a diagnostic Logger, used for defensive warnings (e.g.
// a rejected Rollback) before the corresponding panic.
func WithLogger[K comparable, V any](l Logger) Option[K, V] {
	return func(c *config[K, V]) { c.logger = l }
}

// WithMetrics wires an optional prometheus collector bundle.
func WithMetrics[K comparable, V any](m *Metrics) Option[K, V] {
	return func(c *config[K, V]) { c.metrics = m }
}

// WithMemoizedValueHasher wraps h in an LRU cache of the given size,
// for value types whose Hash is expensive relative to a map operation.
func WithMemoizedValueHasher[K comparable, V any](h Hasher[V], size int) Option[K, V] {
	return func(c *config[K, V]) { c.valueHasher = newMemoizedHasher[V](h, size) }
}

// Map is a single-writer persistent CHAMP map: Insert and Remove return the
// value displaced, if any, and every other field of a prior snapshot
// (obtained via Checkpoint) remains reachable until Rollback or garbage via
// later rollback truncation.
type Map[K comparable, V any] struct {
	store *store[K, V]
	root  arena.Index
	size  int
	phi   uint64
	cfg   *config[K, V]
}

// New returns an empty Map.
func New[K comparable, V any](opts ...Option[K, V]) *Map[K, V] {
	cfg := newConfig[K, V]()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Map[K, V]{store: newStore[K, V](), cfg: cfg}
}

// From builds a Map by inserting every pair in pairs, in iteration order.
func From[K comparable, V any](pairs iter.Seq2[K, V], opts ...Option[K, V]) *Map[K, V] {
	m := New[K, V](opts...)
	m.Extend(pairs)
	return m
}

// Get returns the value stored for k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	return lookup(m.store, m.root, m.cfg.keyHasher.Hash(k), k)
}

// ContainsKey reports whether k is present.
func (m *Map[K, V]) ContainsKey(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// MustGet returns the value stored for k, panicking with a KeyNotFound
// error if k is absent.
func (m *Map[K, V]) MustGet(k K) V {
	v, ok := m.Get(k)
	if !ok {
		panic(errs.New(errs.KeyNotFound, "key not present in map"))
	}
	return v
}

// Len returns the number of distinct keys stored.
func (m *Map[K, V]) Len() int { return m.size }

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool { return m.size == 0 }

// Phi returns the map's current additive structural digest.
func (m *Map[K, V]) Phi() uint64 { return m.phi }

// ArenaLen reports the three backing arenas' current lengths.
func (m *Map[K, V]) ArenaLen() (nodes, entries, children int) { return m.store.arenaLen() }

// Insert adds or overwrites k -> v, returning the value it displaced, if any.
func (m *Map[K, V]) Insert(k K, v V) (V, bool) {
	newRoot, out := insertEntry(m.store, m.root, m.cfg, k, v)
	m.root = newRoot
	m.phi += out.phiDelta
	if out.insertedNewKey {
		m.size++
	}
	if out.newCollisionNode {
		m.cfg.metrics.incCollisionNode()
	}
	m.cfg.metrics.observeArena(m.store.arenaLen())

	var zero V
	if out.hadReplaced {
		return out.replacedValue, true
	}
	return zero, false
}

// Remove deletes k, returning the value it held, if any.
func (m *Map[K, V]) Remove(k K) (V, bool) {
	newRoot, out := removeEntry(m.store, m.root, m.cfg, k)
	var zero V
	if !out.found {
		return zero, false
	}
	m.root = newRoot
	m.phi -= out.phiDelta
	m.size--
	m.cfg.metrics.observeArena(m.store.arenaLen())
	return out.removedValue, true
}

// Extend inserts every pair in pairs, in iteration order.
func (m *Map[K, V]) Extend(pairs iter.Seq2[K, V]) {
	for k, v := range pairs {
		m.Insert(k, v)
	}
}

// Iter returns a one-shot Iterator over the map's entries.
func (m *Map[K, V]) Iter() *Iterator[K, V] { return newIterator(m.store, m.root) }

// All adapts the map's traversal to a Go 1.23 range-over-func sequence.
func (m *Map[K, V]) All() iter.Seq2[K, V] { return iterAll(m.store, m.root) }

// Keys adapts the map's traversal to a Go 1.23 range-over-func key sequence.
func (m *Map[K, V]) Keys() iter.Seq[K] { return iterKeys(m.store, m.root) }

// Values adapts the map's traversal to a Go 1.23 range-over-func value sequence.
func (m *Map[K, V]) Values() iter.Seq[V] { return iterValues(m.store, m.root) }

// Checkpoint captures an O(1) snapshot of the map's current state.
func (m *Map[K, V]) Checkpoint() Checkpoint {
	return takeCheckpoint(m.store, m.cfg, m.root, m.size, m.phi)
}

// Rollback restores the map to a previously taken Checkpoint, in O(1).
// It panics with InvalidRollback if cp did not come from this map's store,
// or names a high-water mark past the store's current length.
func (m *Map[K, V]) Rollback(cp Checkpoint) {
	root, size, phi := applyRollback(m.store, m.cfg, cp)
	m.root, m.size, m.phi = root, size, phi
}

// Clone returns a plain Go map holding a snapshot of every entry.
func (m *Map[K, V]) Clone() map[K]V {
	out := make(map[K]V, m.size)
	for k, v := range m.All() {
		out[k] = v
	}
	return out
}

// Equal reports whether m and other were built from the same set of pairs,
// via O(1) length and phi comparison. False positives occur with
// probability ~2^-64; see spec §1.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	return m.size == other.size && m.phi == other.phi
}

// String renders the map's length and phi, never its contents.
func (m *Map[K, V]) String() string {
	return fmt.Sprintf("champ.Map{len=%d, phi=%#016x}", m.size, m.phi)
}

// GoString renders the same summary as String, for %#v formatting.
func (m *Map[K, V]) GoString() string { return m.String() }

// --- shared mutation/snapshot logic, used by both Map and SharedMap ---

func insertEntry[K comparable, V any](s *store[K, V], root arena.Index, cfg *config[K, V], k K, v V) (arena.Index, insertOutcome[V]) {
	h := cfg.keyHasher.Hash(k)
	vh := cfg.valueHasher.Hash(v)
	e := Entry[K, V]{Hash: h, Key: k, Value: v}
	contrib := contribution(h, vh)

	if root == 0 {
		entriesStart := writeEntries(s, []Entry[K, V]{e})
		newRoot := s.nodes.Alloc(node[K, V]{
			kind:         kindInner,
			dataMap:      mask(fragment(h, 0)),
			entriesStart: entriesStart,
			subtreePhi:   contrib,
		})
		return newRoot, insertOutcome[V]{newNode: newRoot, phiDelta: contrib, insertedNewKey: true}
	}

	out := doInsert(s, root, 0, e, contrib, cfg.valueHasher.Hash)
	return out.newNode, out
}

func removeEntry[K comparable, V any](s *store[K, V], root arena.Index, cfg *config[K, V], k K) (arena.Index, removeOutcome[V]) {
	if root == 0 {
		return 0, removeOutcome[V]{found: false}
	}
	h := cfg.keyHasher.Hash(k)
	out := doRemove(s, root, 0, h, k, cfg.valueHasher.Hash)
	if !out.found {
		return root, out
	}
	if out.hasNewNode {
		return out.newNode, out
	}
	return 0, out
}

func takeCheckpoint[K comparable, V any](s *store[K, V], cfg *config[K, V], root arena.Index, size int, phi uint64) Checkpoint {
	cp := s.checkpoint()
	cp.root = root
	cp.size = size
	cp.phi = phi
	cfg.metrics.incCheckpoint()
	return cp
}

func applyRollback[K comparable, V any](s *store[K, V], cfg *config[K, V], cp Checkpoint) (arena.Index, int, uint64) {
	if cp.storeID != s.id {
		cfg.logger.Warnf("champ: rollback rejected: checkpoint belongs to store %s, not %s", cp.storeID, s.id)
		panic(errs.New(errs.InvalidRollback, "checkpoint belongs to a different store"))
	}

	nodes, entries, children := s.arenaLen()
	if int(cp.nodes) > nodes || int(cp.entries) > entries || int(cp.children) > children {
		cfg.logger.Warnf("champ: rollback rejected: checkpoint for store %s is newer than its current state", s.id)
		panic(errs.New(errs.InvalidRollback, "checkpoint is newer than the store's current state"))
	}

	s.rollback(cp)
	cfg.metrics.incRollback()
	return cp.root, cp.size, cp.phi
}
