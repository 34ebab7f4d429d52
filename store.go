// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"github.com/google/uuid"

	"github.com/open-policy-agent/champ/internal/arena"
)

// store bundles the three arenas a CHAMP trie allocates into: nodes,
// entries, and child-index blocks. It is the only allocation abstraction
// the lookup/insert/remove algorithms consume.
type store[K comparable, V any] struct {
	id       uuid.UUID
	nodes    *arena.Arena[node[K, V]]
	entries  *arena.Arena[Entry[K, V]]
	children *arena.Arena[arena.Index]
}

func newStore[K comparable, V any]() *store[K, V] {
	return &store[K, V]{
		id:       uuid.New(),
		nodes:    arena.New[node[K, V]](),
		entries:  arena.New[Entry[K, V]](),
		children: arena.New[arena.Index](),
	}
}

// Checkpoint is a Copy-trivial snapshot of a map's arenas plus its root,
// size, and phi. It holds no references to K or V. Rolling it back on a
// map other than the one that produced it, or on an arena that has since
// been rolled back past it, is rejected with an InvalidRollback error.
type Checkpoint struct {
	storeID  uuid.UUID
	nodes    arena.HighWater
	entries  arena.HighWater
	children arena.HighWater
	root     arena.Index
	size     int
	phi      uint64
}

// checkpoint captures the arena high-water marks only; the caller (map.go)
// fills in root, size, and phi once it has taken its own snapshot of them.
func (s *store[K, V]) checkpoint() Checkpoint {
	return Checkpoint{
		storeID:  s.id,
		nodes:    s.nodes.Checkpoint(),
		entries:  s.entries.Checkpoint(),
		children: s.children.Checkpoint(),
	}
}

func (s *store[K, V]) rollback(cp Checkpoint) {
	s.nodes.Rollback(cp.nodes)
	s.entries.Rollback(cp.entries)
	s.children.Rollback(cp.children)
}

// arenaLen reports the three arenas' current lengths, for diagnostics.
func (s *store[K, V]) arenaLen() (nodes, entries, children int) {
	return s.nodes.Len(), s.entries.Len(), s.children.Len()
}

func (s *store[K, V]) getNode(idx arena.Index) *node[K, V] {
	return s.nodes.Get(idx)
}

func (s *store[K, V]) getEntry(idx arena.Index) *Entry[K, V] {
	return s.entries.Get(idx)
}

func (s *store[K, V]) getChild(idx arena.Index) arena.Index {
	return *s.children.Get(idx)
}
