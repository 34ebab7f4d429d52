// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package champ

import "math/bits"

// bitsPerLevel is the number of hash bits consumed at each trie depth,
// giving 32-way branching per Inner node.
const bitsPerLevel = 5

// maxShift is the last shift at which a fragment can still distinguish two
// 64-bit hashes; beyond it, any remaining collision is resolved by forming
// a Collision node regardless of whether the keys compare equal.
const maxShift = 60

// fragment extracts the 5-bit slice of hash selected by shift.
func fragment(hash uint64, shift uint) uint32 {
	return uint32(hash>>shift) & 0x1F
}

// mask turns a fragment into its bit position within a 32-bit bitmap.
func mask(frag uint32) uint32 {
	return uint32(1) << frag
}

// compactIndex maps a sparse bit position to its dense offset within the
// compressed block, via popcount of the bits below it.
func compactIndex(bitmap, bit uint32) int {
	return bits.OnesCount32(bitmap & (bit - 1))
}
