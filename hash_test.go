// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultHasherStableAndNonDegenerate(t *testing.T) {
	h := defaultHasher[string]()
	a := h.Hash("hello")
	b := h.Hash("hello")
	if a != b {
		t.Fatalf("default hasher not stable: %#x vs %#x", a, b)
	}
	if h.Hash("hello") == h.Hash("world") {
		t.Fatalf("default hasher collided on distinct short strings (suspiciously)")
	}
}

func TestDefaultHasherCoversCommonKinds(t *testing.T) {
	cases := []any{"s", []byte("b"), true, false, 1, int8(1), int16(1), int32(1), int64(1),
		uint(1), uint8(1), uint16(1), uint32(1), uint64(1), uintptr(1), float32(1.5), float64(1.5), nil}

	seen := map[uint64]bool{}
	for _, c := range cases {
		got := hashAny(c)
		if c != nil && got == 0 {
			t.Fatalf("hashAny(%#v) = 0, suspicious degeneracy", c)
		}
		seen[got] = true
	}
}

func TestContributionWrapsAndIsNonDegenerate(t *testing.T) {
	// h=0 and vh=0 is the one genuinely degenerate input: both products are
	// zero, so the contribution is zero too. Insert never produces it for a
	// real hash unless the hasher itself is degenerate.
	if got := contribution(0, 0); got != 0 {
		t.Fatalf("contribution(0,0) = %#x, want 0 (the degenerate case)", got)
	}

	c1 := contribution(1, 0)
	c2 := contribution(2, 0)
	if c1 == 0 || c2 == 0 {
		t.Fatalf("contribution with a nonzero key hash and zero value hash is 0: c1=%#x c2=%#x", c1, c2)
	}
	if c1 == c2 {
		t.Fatalf("contribution(1,0) == contribution(2,0): %#x", c1)
	}

	sumA := contribution(1, 10) + contribution(2, 20) + contribution(3, 30)
	sumB := contribution(3, 30) + contribution(1, 10) + contribution(2, 20)
	if sumA != sumB {
		t.Fatalf("wrapping sum not order-independent: %#x vs %#x", sumA, sumB)
	}
}

func TestEntrySliceDeepEqualityViaCmp(t *testing.T) {
	a := []Entry[int, int]{{Hash: 1, Key: 1, Value: 10}, {Hash: 2, Key: 2, Value: 20}}
	b := []Entry[int, int]{{Hash: 1, Key: 1, Value: 10}, {Hash: 2, Key: 2, Value: 20}}

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}
