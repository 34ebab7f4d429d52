// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package champ implements a persistent, structurally-shared associative
// map as a CHAMP trie (Compressed Hash-Array Mapped Prefix-tree).
//
// Every map value has a canonical form: the representation of a given set
// of key-value pairs is uniquely determined by the pairs themselves, never
// by insertion or deletion order. This lets the map maintain an
// incrementally updated structural digest (Phi) such that two maps built
// from the same entries always carry the same Phi and Len, giving O(1)
// probabilistic structural equality via Equal.
//
// Two facades share the same trie algorithms: Map is single-writer and
// returns displaced values from Insert/Remove; SharedMap additionally
// supports concurrent reads from multiple goroutines once mutation has
// stopped, at the cost of a narrower mutation API (see SharedMap's doc
// comment for the exact contract).
//
// Checkpoint and Rollback give O(1) snapshot and restore, backed by a bump
// arena (internal/arena) that never reclaims memory in place -- only a
// Rollback reclaims, by truncating back to an earlier high-water mark.
package champ
