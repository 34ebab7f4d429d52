// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package arena

import "testing"

func TestArenaAllocAndGet(t *testing.T) {
	a := New[int]()

	if a.Len() != 1 {
		t.Fatalf("expected sentinel-only length 1, got %d", a.Len())
	}

	var idxs []Index
	for i := 0; i < 1000; i++ {
		idxs = append(idxs, a.Alloc(i))
	}

	for i, idx := range idxs {
		if got := *a.Get(idx); got != i {
			t.Fatalf("Get(%d) = %d, want %d", idx, got, i)
		}
	}
}

func TestArenaReferencesSurviveGrowth(t *testing.T) {
	a := New[int]()

	idx := a.Alloc(42)
	ptr := a.Get(idx)

	for i := 0; i < 10000; i++ {
		a.Alloc(i)
	}

	if *ptr != 42 {
		t.Fatalf("reference invalidated across growth: got %d, want 42", *ptr)
	}
	if *a.Get(idx) != 42 {
		t.Fatalf("Get(idx) after growth = %d, want 42", *a.Get(idx))
	}
}

func TestArenaCheckpointRollback(t *testing.T) {
	a := New[string]()

	a.Alloc("a")
	a.Alloc("b")
	cp := a.Checkpoint()

	a.Alloc("c")
	a.Alloc("d")
	a.Alloc("e")

	if a.Len() != int(cp)+3 {
		t.Fatalf("expected length %d before rollback, got %d", int(cp)+3, a.Len())
	}

	a.Rollback(cp)

	if a.Len() != int(cp) {
		t.Fatalf("Len() after rollback = %d, want %d", a.Len(), int(cp))
	}

	// Space beyond the checkpoint is reused, not leaked.
	idx := a.Alloc("f")
	if int(idx) != int(cp) {
		t.Fatalf("post-rollback Alloc reused offset %d, want %d", idx, cp)
	}
	if *a.Get(idx) != "f" {
		t.Fatalf("Get after reuse = %q, want %q", *a.Get(idx), "f")
	}
}

func TestArenaAllocExtendEmptyIsSentinel(t *testing.T) {
	a := New[int]()
	idx := a.AllocExtend(nil)
	if idx != Index(0) {
		t.Fatalf("AllocExtend(nil) = %d, want sentinel 0", idx)
	}
}

func TestArenaAllocExtendContiguous(t *testing.T) {
	a := New[int]()
	first := a.AllocExtend([]int{10, 20, 30})

	for i, want := range []int{10, 20, 30} {
		if got := *a.Get(Index(int(first) + i)); got != want {
			t.Fatalf("Get(first+%d) = %d, want %d", i, got, want)
		}
	}
}

func TestArenaRollbackAtChunkBoundary(t *testing.T) {
	a := New[int]()

	// Fill exactly to the end of the first chunk (capacity firstChunkSize,
	// minus the sentinel already occupying slot 0) so the checkpoint lands
	// precisely on the boundary where the next chunk has not been
	// allocated yet.
	for a.Len() < firstChunkSize {
		a.Alloc(a.Len())
	}
	cp := a.Checkpoint()
	if int(cp) != firstChunkSize {
		t.Fatalf("checkpoint = %d, want exactly %d", cp, firstChunkSize)
	}

	a.Rollback(cp)

	if a.Len() != firstChunkSize {
		t.Fatalf("Len() after no-op rollback = %d, want %d", a.Len(), firstChunkSize)
	}

	idx := a.Alloc(999)
	if int(idx) != firstChunkSize {
		t.Fatalf("Alloc after boundary rollback = %d, want %d", idx, firstChunkSize)
	}
	if *a.Get(idx) != 999 {
		t.Fatalf("Get after boundary rollback = %d, want 999", *a.Get(idx))
	}
}

func TestArenaManyChunkBoundaries(t *testing.T) {
	a := New[int]()
	const n = 1 << 20
	for i := 0; i < n; i++ {
		if got := a.Alloc(i); int(got) != i+1 {
			t.Fatalf("Alloc #%d returned Index %d, want %d", i, got, i+1)
		}
	}
	for i := 0; i < n; i++ {
		if got := *a.Get(Index(i + 1)); got != i {
			t.Fatalf("Get(%d) = %d, want %d", i+1, got, i)
		}
	}
}
