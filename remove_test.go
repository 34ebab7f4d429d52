// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import "testing"

func TestRemoveNotFoundLeavesMapUnchanged(t *testing.T) {
	m := New[int, int]()
	m.Insert(1, 10)
	m.Insert(2, 20)

	phiBefore := m.Phi()
	if _, ok := m.Remove(999); ok {
		t.Fatalf("Remove(999) reported found for an absent key")
	}
	if m.Phi() != phiBefore || m.Len() != 2 {
		t.Fatalf("Remove of an absent key mutated state: phi %#x -> %#x, len now %d", phiBefore, m.Phi(), m.Len())
	}
}

func TestRemoveInlinesSingleEntryChild(t *testing.T) {
	m := New[int, int]()

	for i := 0; i < 3; i++ {
		m.Insert(i, i*10)
	}
	root := m.store.getNode(m.root)
	if root.kind != kindInner {
		t.Fatalf("expected Inner root, got %v", root.kind)
	}

	for i := 0; i < 2; i++ {
		if _, ok := m.Remove(i); !ok {
			t.Fatalf("Remove(%d) missed a present key", i)
		}
	}
	if m.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", m.Len())
	}
	v, ok := m.Get(2)
	if !ok || v != 20 {
		t.Fatalf("Get(2) = (%d,%v), want (20,true)", v, ok)
	}

	// Canonical form: with one entry left, the root must be a minimal Inner
	// node holding that entry directly -- no lingering single-child wrapper.
	newRoot := m.store.getNode(m.root)
	if newRoot.kind != kindInner || dataCount(newRoot.dataMap) != 1 || newRoot.nodeMap != 0 {
		t.Fatalf("root not canonical after inlining: dataMap=%#x nodeMap=%#x", newRoot.dataMap, newRoot.nodeMap)
	}
}

func TestRemoveFromCollisionRebuildsShorterBlock(t *testing.T) {
	m := New[collidingKey, int](WithKeyHasher[collidingKey, int](fixedHasher{h: 0x42}))

	for i := 0; i < 5; i++ {
		m.Insert(collidingKey{id: i}, i)
	}
	if m.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", m.Len())
	}

	if _, ok := m.Remove(collidingKey{id: 2}); !ok {
		t.Fatalf("Remove missed a present colliding key")
	}
	if m.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", m.Len())
	}
	if _, ok := m.Get(collidingKey{id: 2}); ok {
		t.Fatalf("removed colliding key still resolves")
	}
	for _, id := range []int{0, 1, 3, 4} {
		if _, ok := m.Get(collidingKey{id: id}); !ok {
			t.Fatalf("Get(%d) missing after an unrelated collision-block removal", id)
		}
	}
}

func TestRemoveEveryKeyEmptiesTheRoot(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 200; i++ {
		m.Insert(i, i)
	}
	for i := 0; i < 200; i++ {
		if _, ok := m.Remove(i); !ok {
			t.Fatalf("Remove(%d) missed", i)
		}
	}
	if !m.IsEmpty() || m.root != 0 {
		t.Fatalf("map not empty after removing every key: len=%d root=%v", m.Len(), m.root)
	}
	if m.Phi() != 0 {
		t.Fatalf("Phi() = %#x after removing every key, want 0", m.Phi())
	}
}
