// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"iter"
	"sync"

	"github.com/open-policy-agent/champ/internal/arena"
)

// stackPool recycles the traversal stacks used by Iterator. The element
// type (arena.Index) does not depend on K or V, so a single pool serves
// every instantiation of Iterator -- grounded on the teacher's pooled
// traversal buffers in v1/storage/pools.go.
var stackPool = sync.Pool{
	New: func() any { return make([]arena.Index, 0, 16) },
}

// Iterator yields every (key, value) pair in a map exactly once, in
// depth-first order: at each Inner node, entries are emitted in ascending
// fragment order before its children are visited (also ascending);
// Collision nodes emit entries in storage order. It is one-shot and holds
// a read-only reference to the store for its lifetime.
type Iterator[K comparable, V any] struct {
	store      *store[K, V]
	stack      []arena.Index
	pending    []Entry[K, V]
	pendingPos int
	current    Entry[K, V]
	closed     bool
}

func newIterator[K comparable, V any](s *store[K, V], root arena.Index) *Iterator[K, V] {
	it := &Iterator[K, V]{store: s}
	if root != 0 {
		it.stack = stackPool.Get().([]arena.Index)[:0]
		it.stack = append(it.stack, root)
	}
	return it
}

// Next advances the iterator, returning false once every entry has been
// visited. Key and Value are only valid after a Next call that returned true.
func (it *Iterator[K, V]) Next() bool {
	for it.pendingPos >= len(it.pending) {
		if len(it.stack) == 0 {
			return false
		}
		idx := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		it.openNode(idx)
	}
	it.current = it.pending[it.pendingPos]
	it.pendingPos++
	return true
}

func (it *Iterator[K, V]) openNode(idx arena.Index) {
	n := it.store.getNode(idx)

	if n.kind == kindCollision {
		it.pending = readEntries(it.store, n.entriesStart, int(n.collLen))
		it.pendingPos = 0
		return
	}

	it.pending = readEntries(it.store, n.entriesStart, dataCount(n.dataMap))
	it.pendingPos = 0

	children := readChildren(it.store, n.childStart, nodeCount(n.nodeMap))
	for i := len(children) - 1; i >= 0; i-- {
		it.stack = append(it.stack, children[i])
	}
}

// Key returns the current pair's key.
func (it *Iterator[K, V]) Key() K { return it.current.Key }

// Value returns the current pair's value.
func (it *Iterator[K, V]) Value() V { return it.current.Value }

// Close returns the iterator's traversal stack to the shared pool. It is
// safe to call more than once; calling Next after Close restarts traversal
// from an empty stack (i.e. immediately exhausted, since root is not
// retained).
func (it *Iterator[K, V]) Close() {
	it.pending, it.pendingPos = nil, 0
	if it.closed || it.stack == nil {
		it.closed = true
		return
	}
	it.stack = it.stack[:0]
	stackPool.Put(it.stack)
	it.stack = nil
	it.closed = true
}

// iterAll adapts the one-shot Iterator to a Go 1.23 iter.Seq2.
func iterAll[K comparable, V any](s *store[K, V], root arena.Index) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := newIterator(s, root)
		defer it.Close()
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// iterKeys adapts the one-shot Iterator to a Go 1.23 iter.Seq over keys only.
func iterKeys[K comparable, V any](s *store[K, V], root arena.Index) iter.Seq[K] {
	return func(yield func(K) bool) {
		it := newIterator(s, root)
		defer it.Close()
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// iterValues adapts the one-shot Iterator to a Go 1.23 iter.Seq over values only.
func iterValues[K comparable, V any](s *store[K, V], root arena.Index) iter.Seq[V] {
	return func(yield func(V) bool) {
		it := newIterator(s, root)
		defer it.Close()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}
